package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	docs "zhkh/internal/services/api/docs"
)

// SpecMutator lets callers tweak the parsed swagger spec before it is served
type SpecMutator func(map[string]any)

// docReader is a seam so tests can inject invalid JSON without patching swagger
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// serveDocJSON serves the spec with the shared error responses filled in
func serveDocJSON(o Options) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		ensureServers(spec, o.Servers)
		if o.TitleSuffix != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + o.TitleSuffix
				}
			}
		}

		ensureErrorResponseDefinition(spec)
		addDefaultResponse(spec, "500", errorExample(http.StatusInternalServerError, 1, "internal error"))
		addDefaultResponse(spec, "400", errorExample(http.StatusBadRequest, 8, "text is required"))

		for _, m := range o.Mutators {
			if m != nil {
				m(spec)
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(spec)
	}
}

// ensureServers pins the document to OAS 3.0.3 and fills servers when absent
// swagger http ui can't render 3.1 yet
func ensureServers(spec map[string]any, urls []string) {
	if _, hasSwagger := spec["swagger"]; hasSwagger {
		delete(spec, "swagger")
	}
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}

	if _, ok := spec["servers"]; ok {
		return
	}
	if len(urls) == 0 {
		urls = []string{"/"}
	}
	servers := make([]any, 0, len(urls))
	for _, u := range urls {
		servers = append(servers, map[string]any{"url": u})
	}
	spec["servers"] = servers
}

// ensureErrorResponseDefinition adds the platform error envelope model if missing
func ensureErrorResponseDefinition(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

func errorExample(status, code int, msg string) map[string]any {
	return map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      http.StatusText(status),
					"code":        code,
					"error":       msg,
					"request_id":  "579f33bf50b1/abc-000001",
				},
			},
		},
	}
}

// addDefaultResponse walks every operation and injects resp under status when absent
func addDefaultResponse(spec map[string]any, status string, resp map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses[status]; !exists {
				responses[status] = resp
			}
		}
	}
}
