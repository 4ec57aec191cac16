// Package module wires the complaints service into the API
package module

import (
	"context"
	"errors"

	"zhkh/internal/core/classify"
	"zhkh/internal/modkit"
	"zhkh/internal/modkit/httpkit"

	"zhkh/internal/services/complaints/domain"
	chttp "zhkh/internal/services/complaints/http"
	"zhkh/internal/services/complaints/repo"
	"zhkh/internal/services/complaints/service"
)

// Ports exposed by the complaints module
type Ports struct {
	Service domain.ServicePort
	Schema  domain.SchemaPort
}

// Module implements modkit.Module
type Module struct {
	b     modkit.Built
	ports Ports
}

// ErrNoStore means neither postgres nor sqlite was opened
var ErrNoStore = errors.New("complaints: no relational store configured")

// New builds the module over the relational store in deps, postgres first
func New(deps modkit.Deps, cls classify.Classifier, opts ...modkit.Option) (*Module, error) {
	db, binder := deps.PG, repo.NewPG()
	if db == nil {
		db, binder = deps.Lite, repo.NewSQLite()
	}
	if db == nil {
		return nil, ErrNoStore
	}

	var (
		events domain.EventSink = repo.NopEvents{}
		ch     *repo.CHEvents
	)
	if deps.CH != nil {
		ch = repo.NewCHEvents(deps.CH)
		events = ch
	}

	svc := service.New(db, binder, cls,
		service.WithEvents(events),
		service.WithRecorder(deps.Metrics),
	)

	return &Module{
		b: modkit.Build([]modkit.Option{modkit.WithName("complaints"), modkit.WithPrefix("")}, opts...),
		ports: Ports{
			Service: svc,
			Schema:  schema{db: svc, ch: ch},
		},
	}, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		chttp.Register(rr, m.ports.Service)
	})
}

// schema creates the complaints table and, when clickhouse is on, the events table
type schema struct {
	db domain.SchemaPort
	ch *repo.CHEvents
}

func (s schema) EnsureSchema(ctx context.Context) error {
	if err := s.db.EnsureSchema(ctx); err != nil {
		return err
	}
	if s.ch != nil {
		return s.ch.EnsureSchema(ctx)
	}
	return nil
}
