// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"maps"
	"net/http"
	"slices"
	"time"

	"zhkh/internal/core/version"
	"zhkh/internal/modkit/httpkit"
)

// Pinger is satisfied by store seams that can report readiness
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	// Checks maps a dependency name to its seam; values that are not Pingers report unknown
	Checks map[string]any
	Now    func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/", h.root)
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
}

//
// Swagger DTOs and route docs
//

// RootResponse greets API clients
type RootResponse struct {
	Message string `json:"message" example:"API работает!"`
	Status  string `json:"status"  example:"ok"`
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status    string `json:"status"    example:"healthy"`
	Timestamp string `json:"timestamp" example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"sqlite"`
	Status string `json:"status" example:"ok"` // ok fail unknown
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Uptime int64        `json:"uptime" example:"300"`
}

// @Summary API banner
// @Tags Meta
// @Produce json
// @Success 200 {object} RootResponse
// @Router / [get]
func (h *handlers) root(_ *http.Request) (any, error) {
	return httpkit.Bare(RootResponse{Message: "API работает!", Status: "ok"}), nil
}

// @Summary Liveness probe
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return httpkit.Bare(HealthResponse{
		Status:    "healthy",
		Timestamp: h.deps.Now().UTC().Format(time.RFC3339),
	}), nil
}

// @Summary Readiness probe with store checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	out := ReadyResponse{
		Status: "ok",
		Checks: []ReadyCheck{},
		Uptime: int64(h.deps.Now().Sub(h.deps.StartedAt) / time.Second),
	}
	for _, name := range slices.Sorted(maps.Keys(h.deps.Checks)) {
		c := ReadyCheck{Name: name, Status: "unknown"}
		if p, ok := h.deps.Checks[name].(Pinger); ok {
			c.Status = "ok"
			if err := p.Ping(ctx); err != nil {
				c.Status, c.Error = "fail", err.Error()
				out.Status = "fail"
			}
		}
		out.Checks = append(out.Checks, c)
	}

	resp := httpkit.Bare(out)
	if out.Status != "ok" {
		resp.Status = http.StatusServiceUnavailable
	}
	return resp, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return httpkit.Bare(version.Info(h.deps.ServiceName)), nil
}
