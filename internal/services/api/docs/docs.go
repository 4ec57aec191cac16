// Package docs holds the OpenAPI document served by the api under /api/docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/": {
            "get": {
                "tags": ["meta"],
                "summary": "Liveness banner",
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Banner"}}}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["meta"],
                "summary": "Health probe with server time",
                "responses": {
                    "200": {
                        "description": "OK",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Health"}}}
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["meta"],
                "summary": "Readiness probe, pings the configured stores",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {
                        "description": "A store did not answer",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}
                    }
                }
            }
        },
        "/version": {
            "get": {
                "tags": ["meta"],
                "summary": "Build information",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/complaint": {
            "post": {
                "tags": ["complaints"],
                "summary": "Submit a complaint filled in from the template",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Submission"}}}
                },
                "responses": {
                    "200": {
                        "description": "Accepted and classified",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Ack"}}}
                    }
                }
            }
        },
        "/complaints": {
            "get": {
                "tags": ["complaints"],
                "summary": "Unprocessed complaints grouped by category, newest first",
                "responses": {
                    "200": {
                        "description": "Four buckets, always present",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Listing"}}}
                    }
                }
            }
        },
        "/complaint/{id}/processed": {
            "post": {
                "tags": ["complaints"],
                "summary": "Mark a complaint processed",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "schema": {"type": "integer", "format": "int64"}}
                ],
                "responses": {
                    "200": {
                        "description": "Processed",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Status"}}}
                    },
                    "404": {
                        "description": "Unknown id",
                        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}
                    }
                }
            }
        }
    },
    "components": {
        "schemas": {
            "Banner": {
                "type": "object",
                "properties": {"message": {"type": "string"}, "status": {"type": "string"}}
            },
            "Health": {
                "type": "object",
                "properties": {"status": {"type": "string"}, "timestamp": {"type": "string", "format": "date-time"}}
            },
            "Status": {
                "type": "object",
                "properties": {"status": {"type": "string", "example": "success"}}
            },
            "Submission": {
                "type": "object",
                "required": ["text"],
                "properties": {
                    "text": {
                        "type": "string",
                        "example": "Адрес места происшествия: г. Москва, ул. Ленина, 5\nОписание происшествия: течет кран"
                    }
                }
            },
            "Ack": {
                "type": "object",
                "properties": {
                    "status": {"type": "string", "example": "success"},
                    "id": {"type": "integer", "format": "int64"},
                    "category": {"$ref": "#/components/schemas/Category"},
                    "address": {"type": "string"}
                }
            },
            "Category": {
                "type": "string",
                "enum": ["водоснабжение", "электричество", "отопление", "другое"]
            },
            "Complaint": {
                "type": "object",
                "properties": {
                    "id": {"type": "integer", "format": "int64"},
                    "text": {"type": "string"},
                    "address": {"type": "string"},
                    "category": {"$ref": "#/components/schemas/Category"},
                    "created_at": {"type": "string", "format": "date-time"}
                }
            },
            "Listing": {
                "type": "object",
                "properties": {
                    "водоснабжение": {"type": "array", "items": {"$ref": "#/components/schemas/Complaint"}},
                    "электричество": {"type": "array", "items": {"$ref": "#/components/schemas/Complaint"}},
                    "отопление": {"type": "array", "items": {"$ref": "#/components/schemas/Complaint"}},
                    "другое": {"type": "array", "items": {"$ref": "#/components/schemas/Complaint"}}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported spec information
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "zhkh API",
	Description:      "Intake of housing and utility complaints: submit, list unprocessed, mark processed.",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
