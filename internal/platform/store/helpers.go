package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoRowsAffected is returned by ExecOne when the statement matched nothing
var ErrNoRowsAffected = errors.New("no rows affected")

// ExecOne runs a write that must touch exactly one row
func ExecOne(ctx context.Context, q RowQuerier, sql string, args ...any) error {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if n := tag.RowsAffected(); n != 1 {
		if n == 0 {
			return ErrNoRowsAffected
		}
		return fmt.Errorf("%d rows affected, want 1", n)
	}
	return nil
}

// Many scans every row with scan; no rows gives an empty, non-nil slice
// so lists encode as [] rather than null
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
