// Package middleware adapts chi and go-chi/cors middleware and hosts the in-house ones
package middleware

import (
	"net/http"
	"time"

	pstrings "zhkh/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID attaches or propagates X-Request-ID and stores it on context
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP sets RemoteAddr from X-Real-IP / X-Forwarded-For
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// Timeout cancels the request context after d and answers 504 if the handler gives up
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// NoCache disables client and proxy caching
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// StripSlashes strips a trailing slash so /complaints/ routes like /complaints
func StripSlashes() func(http.Handler) http.Handler { return chimw.StripSlashes }

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS wraps go-chi/cors, every empty list falls back to a permissive default
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   pstrings.IfEmpty(o.AllowedOrigins, []string{"*"}),
		AllowedMethods:   pstrings.IfEmpty(o.AllowedMethods, []string{"GET", "POST", "OPTIONS"}),
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, []string{"*"}),
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
