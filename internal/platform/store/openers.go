package store

import (
	"context"
	"fmt"
	"time"

	chx "zhkh/internal/platform/store/ch"
	"zhkh/internal/platform/store/lite"
	"zhkh/internal/platform/store/pg"
)

// backoff knobs shared by every opener that waits for a server to come up
const (
	backoffStart   = 150 * time.Millisecond
	backoffCeiling = 2 * time.Second
)

// sleep is a seam so tests do not wait out the backoff
var sleep = func(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// pingUntilUp calls ping with exponential backoff until it succeeds, ctx ends or attempts run out
func pingUntilUp(ctx context.Context, attempts int, timeout time.Duration, ping func(context.Context) error) error {
	var last error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, timeout)
		last = ping(toCtx)
		cancel()
		if last == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		sleep(ctx, backoff)
		backoff = min(backoff*2, backoffCeiling)
	}
	return fmt.Errorf("ping failed after %d attempts: %w", attempts, last)
}

func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log, "pg")
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	// ping the pool directly so boot retries do not show up as traced queries
	if err := pingUntilUp(ctx, attempts, timeout, p.Pool.Ping); err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return newPGAdapter(p), nil
}

func openLite(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	db, err := lite.Open(ctx, lite.Config{
		Path:        cfg.Lite.Path,
		BusyTimeout: cfg.Lite.BusyTimeout,
	})
	if err != nil {
		return nil, err
	}
	var tracer pg.QueryTracer
	if cfg.Lite.LogSQL {
		tracer = pg.Tracer(s.Log, "sqlite")
	}
	return newLiteAdapter(db, tracer), nil
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: cfg.CH.ClientName,
		ClientTag:  cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	if err := pingUntilUp(ctx, 5, 3*time.Second, c.Ping); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("clickhouse: %w", err)
	}
	return newCHAdapter(c), nil
}
