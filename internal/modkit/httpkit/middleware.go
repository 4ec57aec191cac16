package httpkit

import (
	"net/http"
	"time"

	"zhkh/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	// CORSOrigins restricts cross-origin callers, empty allows any
	CORSOrigins []string

	// Timeout caps handler time, 0 means 30s
	Timeout time.Duration

	// Slow marks access log lines at warn level
	Slow time.Duration

	// Observe receives every finished request, usually metrics.ObserveHTTP
	Observe func(method, route string, status int, elapsed time.Duration)
}

// CommonStack returns the baseline middleware slice for the api router
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		// correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow, Observe: o.Observe}),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.StripSlashes(),
		middleware.Timeout(timeout),
	}
}
