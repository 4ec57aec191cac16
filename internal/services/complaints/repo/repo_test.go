package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"zhkh/internal/core/category"
	perr "zhkh/internal/platform/errors"
	"zhkh/internal/platform/store"
	"zhkh/internal/platform/testkit"
	"zhkh/internal/services/complaints/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLite(t *testing.T) Storage {
	t.Helper()
	db := testkit.Lite(t)

	s := NewSQLite().Bind(store.NewLite(db))
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func TestSQLite_InsertListMark(t *testing.T) {
	ctx := context.Background()
	s := newLite(t)

	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	id1, err := s.Insert(ctx, domain.NewComplaint{Text: "вода", Address: "ул. Ленина, 5", Category: category.WaterSupply, CreatedAt: base})
	require.NoError(t, err)
	id2, err := s.Insert(ctx, domain.NewComplaint{Text: "свет", Address: "не указан", Category: category.Electricity, CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	got, err := s.ListUnprocessed(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, id2, got[0].ID, "newest first")
	assert.Equal(t, category.Electricity, got[0].Category)
	assert.Equal(t, base.Add(time.Minute), got[0].CreatedAt)
	assert.Equal(t, "ул. Ленина, 5", got[1].Address)

	require.NoError(t, s.MarkProcessed(ctx, id1))
	require.NoError(t, s.MarkProcessed(ctx, id1), "marking twice is fine")

	got, err = s.ListUnprocessed(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id2, got[0].ID)
}

func TestSQLite_MarkMissing(t *testing.T) {
	err := newLite(t).MarkProcessed(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
	assert.Equal(t, "Жалоба не найдена", perr.WireFrom(err).Message)
}

func TestSQLite_EmptyList(t *testing.T) {
	got, err := newLite(t).ListUnprocessed(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQLite_SameInstantOrdersByID(t *testing.T) {
	ctx := context.Background()
	s := newLite(t)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.Insert(ctx, domain.NewComplaint{Text: fmt.Sprint(i), Category: category.Other, CreatedAt: at})
		require.NoError(t, err)
	}
	got, err := s.ListUnprocessed(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Greater(t, got[0].ID, got[1].ID)
	assert.Greater(t, got[1].ID, got[2].ID)
}

func TestSQLite_EnsureSchemaTwice(t *testing.T) {
	s := newLite(t)
	assert.NoError(t, s.EnsureSchema(context.Background()))
}

func TestDialects(t *testing.T) {
	r := &sqlRepo{d: pgDialect}
	assert.Equal(t, "$1, $2, $3", r.args(3))
	r.d = liteDialect
	assert.Equal(t, "?, ?", r.args(2))

	at := time.Date(2025, 6, 1, 12, 0, 0, 120, time.FixedZone("MSK", 3*3600))
	enc := liteDialect.encode(at)
	assert.Equal(t, "2025-06-01T09:00:00.000000120Z", enc)
	back, err := liteDialect.decode(enc)
	require.NoError(t, err)
	assert.True(t, at.Equal(back))

	_, err = pgDialect.decode("nope")
	assert.Error(t, err)
}

type fakeCH struct {
	table string
	rows  [][]any
	ddl   string
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error { f.ddl = sql; return nil }
func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.table, f.rows = table, rows
	return nil
}
func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeCH) Close() error                                              { return nil }

func TestCHEvents(t *testing.T) {
	ch := &fakeCH{}
	s := NewCHEvents(ch)
	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.Contains(t, ch.ddl, "MergeTree")

	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Record(context.Background(), domain.Event{ComplaintID: 7, Category: category.Heating, Strategy: "rules", At: at}))
	assert.Equal(t, EventsTable, ch.table)
	assert.Equal(t, [][]any{{int64(7), "отопление", "rules", at}}, ch.rows)

	assert.NoError(t, NopEvents{}.Record(context.Background(), domain.Event{}))
}
