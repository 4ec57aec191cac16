// Package swaggerkit mounts the Swagger UI and the JSON spec
package swaggerkit

import (
	"net/http"

	phttp "zhkh/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Options tunes the served document
type Options struct {
	// Servers become the OAS servers list when the document has none
	Servers []string

	// TitleSuffix is appended to info.title, e.g. an environment name
	TitleSuffix string

	// Mutators run last, in order
	Mutators []SpecMutator
}

// Mount the Swagger UI and JSON spec if enabled
func Mount(r phttp.Router, enabled bool, o Options) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/index.html", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(o))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
