// Package store opens the storage backends a process needs and hides each driver behind a small seam
package store

import (
	"context"
	"errors"
	"fmt"

	"zhkh/internal/platform/logger"
)

// Store is the facade for the configured backends
// zero value is safe but does nothing
type Store struct {
	// Log is the logger used by subclients
	Log logger.Logger

	// PG is the postgres seam, nil when disabled
	PG TxRunner

	// Lite is the embedded sqlite seam, nil when disabled
	Lite TxRunner

	// CH is the clickhouse seam, nil when disabled
	CH Clickhouse
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam used for append-only event tables
type Clickhouse interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Option adjusts the Store before any backend opens
type Option func(*Store)

// WithLogger sets the logger the drivers trace through
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.Log = log }
}

// Open constructs a Store with the requested backends
// backends not enabled in cfg remain nil on the Store
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		o(s)
	}
	s.Log = s.Log.With().Logger()

	if cfg.PG.Enabled {
		p, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = p
	}

	if cfg.Lite.Enabled {
		l, err := openLite(ctx, cfg, s)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.Lite = l
	}

	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg, s)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = c
	}

	return s, nil
}

// SQL returns the relational seam in use, postgres first
func (s *Store) SQL() TxRunner {
	if s == nil {
		return nil
	}
	if s.PG != nil {
		return s.PG
	}
	return s.Lite
}

// Guard pings every configured seam and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	check := func(name string, v any) {
		if p, ok := v.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	if s.PG != nil {
		check("pg", s.PG)
	}
	if s.Lite != nil {
		check("sqlite", s.Lite)
	}
	if s.CH != nil {
		check("clickhouse", s.CH)
	}
	return errors.Join(errs...)
}

// Close closes all initialized backends
// nil backends are ignored
func (s *Store) Close(_ context.Context) error {
	var errs []error
	if s.CH != nil {
		if e := s.CH.Close(); e != nil {
			errs = append(errs, e)
		}
	}
	for _, db := range []TxRunner{s.Lite, s.PG} {
		if c, ok := db.(interface{ Close() error }); ok {
			if e := c.Close(); e != nil {
				errs = append(errs, e)
			}
		}
	}
	return errors.Join(errs...)
}
