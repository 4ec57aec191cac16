package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"zhkh/internal/platform/store/pg"
)

// sqlQuerier is the subset of *sql.DB and *sql.Tx the adapter drives
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// liteRunner implements RowQuerier over database/sql
type liteRunner struct {
	q sqlQuerier
	traced
}

func (a liteRunner) Exec(ctx context.Context, query string, args ...any) (CommandTag, error) {
	start := time.Now()
	res, err := a.q.ExecContext(ctx, query, args...)
	a.emit(ctx, query, args, start, err)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	return sqlTag{n: n}, nil
}

func (a liteRunner) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.q.QueryContext(ctx, query, args...)
	a.emit(ctx, query, args, start, err)
	if err != nil {
		return nil, err
	}
	return &sqlRows{r: rs}, nil
}

func (a liteRunner) QueryRow(ctx context.Context, query string, args ...any) Row {
	start := time.Now()
	r := a.q.QueryRowContext(ctx, query, args...)
	return scanHook{r: r, after: func(err error) { a.emit(ctx, query, args, start, err) }}
}

// liteAdapter wraps *sql.DB and implements TxRunner
type liteAdapter struct {
	liteRunner
	db *sql.DB
}

func newLiteAdapter(db *sql.DB, tracer pg.QueryTracer) *liteAdapter {
	return &liteAdapter{
		liteRunner: liteRunner{q: db, traced: traced{tracer: tracer, slowUS: 250_000}},
		db:         db,
	}
}

// NewLite wraps an already opened database, mostly for tests and tools
func NewLite(db *sql.DB) TxRunner { return newLiteAdapter(db, nil) }

func (a *liteAdapter) Ping(ctx context.Context) error {
	if a == nil || a.db == nil {
		return errors.New("sqlite: nil adapter")
	}
	return a.db.PingContext(ctx)
}

func (a *liteAdapter) Close() error { return a.db.Close() }

func (a *liteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(liteRunner{q: tx, traced: a.traced}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type sqlTag struct{ n int64 }

func (t sqlTag) String() string      { return "ROWS " + strconv.FormatInt(t.n, 10) }
func (t sqlTag) RowsAffected() int64 { return t.n }

type sqlRows struct {
	r    *sql.Rows
	cols []string
}

func (x *sqlRows) Next() bool            { return x.r.Next() }
func (x *sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x *sqlRows) Err() error            { return x.r.Err() }
func (x *sqlRows) Close()                { _ = x.r.Close() }
func (x *sqlRows) Columns() []string {
	if x.cols == nil {
		x.cols, _ = x.r.Columns()
	}
	return x.cols
}
