// Package ch wraps clickhouse-go for append-only event tables
package ch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the clickhouse client
type Config struct {
	URL        string
	ClientName string
	ClientTag  string
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// conn is the part of driver.Conn this package uses
type conn interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
	Close() error
}

// CH is a clickhouse client over the native protocol
type CH struct {
	c conn
}

var dial = func(opts *clickhouse.Options) (conn, error) { return clickhouse.Open(opts) }

// Open parses a clickhouse:// DSN and prepares a client; connections are made lazily
func Open(_ context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("clickhouse dsn: %w", err)
	}
	opts.ClientInfo = BuildClientInfo(cfg.ClientName, cfg.ClientTag)
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	c, err := dial(opts)
	if err != nil {
		return nil, err
	}
	return &CH{c: c}, nil
}

// Ping checks the server answers
func (c *CH) Ping(ctx context.Context) error { return c.c.Ping(ctx) }

// Exec runs DDL or a statement without results
func (c *CH) Exec(ctx context.Context, query string, args ...any) error {
	return c.c.Exec(ctx, query, args...)
}

// Insert appends rows to table in one batch, column order as declared by the table
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	if table == "" {
		return errors.New("clickhouse: empty table")
	}
	b, err := c.c.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return err
		}
	}
	return b.Send()
}

// Query runs a select
func (c *CH) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return c.c.Query(ctx, query, args...)
}

// Close closes the connection pool
func (c *CH) Close() error { return c.c.Close() }
