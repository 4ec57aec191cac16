// Package repo stores complaints in postgres or sqlite
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"zhkh/internal/core/category"
	"zhkh/internal/modkit/repokit"
	perr "zhkh/internal/platform/errors"
	"zhkh/internal/platform/store"
	"zhkh/internal/services/complaints/domain"
)

// Storage is the complaints table
type Storage interface {
	Insert(ctx context.Context, c domain.NewComplaint) (int64, error)
	ListUnprocessed(ctx context.Context) ([]domain.Complaint, error)
	MarkProcessed(ctx context.Context, id int64) error
	EnsureSchema(ctx context.Context) error
}

// dialect captures what differs between the two engines
type dialect struct {
	name   string
	schema []string
	ph     func(n int) string
	// encode turns a timestamp into the driver value, decode reverses it
	encode func(time.Time) any
	decode func(src any) (time.Time, error)
}

// liteTime is fixed width so text order equals time order
const liteTime = "2006-01-02T15:04:05.000000000Z"

var pgDialect = dialect{
	name: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS complaints (
			id           BIGSERIAL PRIMARY KEY,
			text         TEXT NOT NULL,
			address      TEXT,
			category     VARCHAR(50),
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			is_processed BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS complaints_open_idx ON complaints (created_at DESC, id DESC) WHERE NOT is_processed`,
	},
	ph:     func(n int) string { return fmt.Sprintf("$%d", n) },
	encode: func(t time.Time) any { return t.UTC() },
	decode: func(src any) (time.Time, error) {
		t, ok := src.(time.Time)
		if !ok {
			return time.Time{}, fmt.Errorf("created_at: unexpected %T", src)
		}
		return t.UTC(), nil
	},
}

var liteDialect = dialect{
	name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS complaints (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			text         TEXT NOT NULL,
			address      TEXT,
			category     VARCHAR(50),
			created_at   TEXT NOT NULL,
			is_processed BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS complaints_open_idx ON complaints (is_processed, created_at DESC, id DESC)`,
	},
	ph:     func(int) string { return "?" },
	encode: func(t time.Time) any { return t.UTC().Format(liteTime) },
	decode: func(src any) (time.Time, error) {
		var s string
		switch v := src.(type) {
		case string:
			s = v
		case []byte:
			s = string(v)
		case time.Time:
			return v.UTC(), nil
		default:
			return time.Time{}, fmt.Errorf("created_at: unexpected %T", src)
		}
		return time.Parse(time.RFC3339Nano, s)
	},
}

type (
	sqlRepo struct {
		q repokit.Queryer
		d dialect
	}
	binder struct{ d dialect }
)

// NewPG binds the repo to postgres
func NewPG() repokit.Binder[Storage] { return binder{d: pgDialect} }

// NewSQLite binds the repo to sqlite
func NewSQLite() repokit.Binder[Storage] { return binder{d: liteDialect} }

// Bind implements repokit.Binder
func (b binder) Bind(q repokit.Queryer) Storage { return &sqlRepo{q: q, d: b.d} }

// EnsureSchema implements Storage
func (r *sqlRepo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range r.d.schema {
		if _, err := r.q.Exec(ctx, stmt); err != nil {
			return perr.FromDB(err, r.d.name+" schema")
		}
	}
	return nil
}

// Insert implements Storage
func (r *sqlRepo) Insert(ctx context.Context, c domain.NewComplaint) (int64, error) {
	sql := `INSERT INTO complaints (text, address, category, created_at, is_processed)
		VALUES (` + r.args(4) + `, FALSE) RETURNING id`

	var id int64
	err := r.q.QueryRow(ctx, sql, c.Text, c.Address, c.Category.String(), r.d.encode(c.CreatedAt)).Scan(&id)
	if err != nil {
		return 0, perr.FromDB(err, "insert complaint")
	}
	return id, nil
}

// ListUnprocessed implements Storage
func (r *sqlRepo) ListUnprocessed(ctx context.Context) ([]domain.Complaint, error) {
	return store.Many(ctx, r.q, r.scan, `
		SELECT id, text, COALESCE(address, ''), COALESCE(category, ''), created_at
		FROM complaints
		WHERE is_processed = FALSE
		ORDER BY created_at DESC, id DESC`)
}

// MarkProcessed implements Storage
// marking an already processed complaint again succeeds
func (r *sqlRepo) MarkProcessed(ctx context.Context, id int64) error {
	err := store.ExecOne(ctx, r.q, `UPDATE complaints SET is_processed = TRUE WHERE id = `+r.d.ph(1), id)
	switch {
	case errors.Is(err, store.ErrNoRowsAffected):
		return perr.WithField(perr.NotFoundf("Жалоба не найдена"), "id")
	case err != nil:
		return perr.FromDB(err, "mark processed")
	}
	return nil
}

func (r *sqlRepo) scan(row repokit.Row) (domain.Complaint, error) {
	var (
		c   domain.Complaint
		cat string
		at  any
	)
	if err := row.Scan(&c.ID, &c.Text, &c.Address, &cat, &at); err != nil {
		return c, err
	}
	t, err := r.d.decode(at)
	if err != nil {
		return c, err
	}
	c.Category = category.Parse(cat)
	c.CreatedAt = t
	return c, nil
}

func (r *sqlRepo) args(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = r.d.ph(i + 1)
	}
	return strings.Join(ph, ", ")
}
