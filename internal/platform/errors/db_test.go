package errors

import (
	"context"
	stderrs "errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pgErr(code, col string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ColumnName: col}
}

func TestDBErrorCode(t *testing.T) {
	cases := map[string]ErrorCode{
		"23505": ErrorCodeDuplicateKey,
		"23502": ErrorCodeValidation,
		"22001": ErrorCodeInvalidArgument,
		"40001": ErrorCodeDB,
		"57P03": ErrorCodeUnavailable,
		"53300": ErrorCodeUnavailable,
		"XX000": ErrorCodeDB,
	}
	for state, want := range cases {
		got, ok := DBErrorCode(Wrap(pgErr(state, ""), ErrorCodeDB, "wrapped"))
		require.True(t, ok, state)
		assert.Equal(t, want, got, state)
	}

	_, ok := DBErrorCode(stderrs.New("no such table: complaints"))
	assert.False(t, ok)
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "x"))

	err := FromDB(pgErr("23502", "text"), "insert complaint")
	assert.True(t, IsCode(err, ErrorCodeValidation))
	assert.Equal(t, "text", WireFrom(err).Field)

	err = FromDB(stderrs.New("disk I/O error"), "insert complaint")
	assert.True(t, IsCode(err, ErrorCodeDB))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(pgErr("40001", "")))
	assert.True(t, IsRetryable(pgErr("40P01", "")))
	assert.False(t, IsRetryable(pgErr("23505", "")))
	assert.True(t, IsRetryable(stderrs.New("database is locked (5) (SQLITE_BUSY)")))
	assert.False(t, IsRetryable(stderrs.New("syntax error")))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(nil))
}
