// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"zhkh/internal/modkit"
	"zhkh/internal/modkit/httpkit"

	metahttp "zhkh/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	b         modkit.Built
	deps      metahttp.Deps
	startedAt time.Time
}

// New constructs a meta module; service names the binary in /version
func New(deps modkit.Deps, service string, opts ...modkit.Option) *Module {
	checks := map[string]any{}
	if deps.PG != nil {
		checks["pg"] = deps.PG
	}
	if deps.Lite != nil {
		checks["sqlite"] = deps.Lite
	}
	if deps.CH != nil {
		checks["clickhouse"] = deps.CH
	}

	m := &Module{
		b:         modkit.Build([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("")}, opts...),
		startedAt: time.Now(),
	}
	m.deps = metahttp.Deps{
		ServiceName: service,
		StartedAt:   m.startedAt,
		Checks:      checks,
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, m.deps)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
