package store

import (
	"context"
	"errors"
	"time"

	"zhkh/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// traced emits query events to an optional tracer; shared by the pg and sqlite adapters
type traced struct {
	tracer pg.QueryTracer
	slowUS int64
}

func (t traced) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	t.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      t.slowUS >= 0 && elapsedUS >= t.slowUS,
	})
}

// pgQuerier is the subset of pgxpool.Pool and pgx.Tx the adapter drives
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgRunner implements RowQuerier over a pool or a transaction
type pgRunner struct {
	q pgQuerier
	traced
}

func (a pgRunner) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := a.q.Exec(ctx, sql, args...)
	a.emit(ctx, sql, args, start, err)
	return ct, err
}

func (a pgRunner) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.q.Query(ctx, sql, args...)
	a.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgRows{r: rs}, nil
}

func (a pgRunner) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := a.q.QueryRow(ctx, sql, args...)
	return scanHook{r: r, after: func(err error) { a.emit(ctx, sql, args, start, err) }}
}

// pgAdapter wraps pg.PG and implements TxRunner
type pgAdapter struct {
	pgRunner
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{
		pgRunner: pgRunner{q: p.Pool, traced: traced{tracer: p.Tracer, slowUS: int64(p.SlowMs) * 1000}},
		p:        p,
	}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil {
		return errors.New("pg: nil adapter")
	}
	return a.p.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(pgRunner{q: tx, traced: a.traced}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// scanHook runs after once the row has been scanned, so QueryRow timing includes the fetch
type scanHook struct {
	r     Row
	after func(error)
}

func (x scanHook) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type pgRows struct{ r pgx.Rows }

func (x pgRows) Next() bool            { return x.r.Next() }
func (x pgRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x pgRows) Err() error            { return x.r.Err() }
func (x pgRows) Close()                { x.r.Close() }
func (x pgRows) Columns() []string {
	f := x.r.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = f[i].Name
	}
	return out
}
