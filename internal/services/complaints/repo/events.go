package repo

import (
	"context"

	"zhkh/internal/platform/store"
	"zhkh/internal/services/complaints/domain"
)

// EventsTable receives one row per classified complaint
const EventsTable = "classification_events"

const eventsDDL = `CREATE TABLE IF NOT EXISTS ` + EventsTable + ` (
	complaint_id Int64,
	category     LowCardinality(String),
	strategy     LowCardinality(String),
	at           DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (at, complaint_id)`

// CHEvents appends classification events to clickhouse
type CHEvents struct {
	ch store.Clickhouse
}

// NewCHEvents returns a sink over ch
func NewCHEvents(ch store.Clickhouse) *CHEvents { return &CHEvents{ch: ch} }

// EnsureSchema creates the events table
func (s *CHEvents) EnsureSchema(ctx context.Context) error {
	return s.ch.Exec(ctx, eventsDDL)
}

// Record implements domain.EventSink
func (s *CHEvents) Record(ctx context.Context, e domain.Event) error {
	return s.ch.Insert(ctx, EventsTable, [][]any{{
		e.ComplaintID, e.Category.String(), e.Strategy, e.At.UTC(),
	}})
}

// NopEvents drops every event
type NopEvents struct{}

// Record implements domain.EventSink
func (NopEvents) Record(context.Context, domain.Event) error { return nil }
