package httpkit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Get registers a no-body handler and uses the envelope adapter
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// Post registers a no-body handler, for action endpoints
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, Call(h))
}

// PostJSON mounts a JSON bound handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...BindOptions) {
	r.Post(path, JSON(h, opts...))
}

// Param returns a path parameter captured by the router
func Param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
