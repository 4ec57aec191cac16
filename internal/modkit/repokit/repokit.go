// Package repokit binds repositories to whichever SQL seam the process opened
package repokit

import (
	"context"
	"fmt"

	"zhkh/internal/platform/store"
)

type (
	// Queryer is the read and write surface a repo is bound to
	Queryer = store.RowQuerier

	// TxRunner is a Queryer that can also open transactions
	TxRunner = store.TxRunner

	// Row is a single scanned row
	Row = store.Row
)

// Binder builds a repo over a Queryer, either the pool or a transaction
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a plain constructor to Binder
type BindFunc[T any] func(Queryer) T

// Bind implements Binder
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind binds b to q, panicking on a nil q since that is a wiring bug
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}

// WithTx runs fn with b bound to a transaction on tx
func WithTx[T any](ctx context.Context, tx TxRunner, b Binder[T], fn func(T) error) error {
	return tx.Tx(ctx, func(q Queryer) error { return fn(b.Bind(q)) })
}

// MustGuard pings every seam of st and panics if any is down, for process startup
func MustGuard(ctx context.Context, st interface{ Guard(context.Context) error }) {
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("storage guard failed: %w", err))
	}
}
