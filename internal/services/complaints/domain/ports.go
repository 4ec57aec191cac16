package domain

import "context"

// ServicePort is the intake gateway as seen by transports
type ServicePort interface {
	Submit(ctx context.Context, text string) (Ack, error)
	ListUnprocessed(ctx context.Context) (Listing, error)
	MarkProcessed(ctx context.Context, id int64) error
}

// SchemaPort creates the tables the module needs
type SchemaPort interface {
	EnsureSchema(ctx context.Context) error
}

// EventSink records classification events; failures never block intake
type EventSink interface {
	Record(ctx context.Context, e Event) error
}
