package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE classes the complaints store can hit
const (
	sqlUnique       = "23505"
	sqlNotNull      = "23502"
	sqlCheck        = "23514"
	sqlTooLong      = "22001"
	sqlBadText      = "22P02"
	sqlSerialize    = "40001"
	sqlDeadlock     = "40P01"
	sqlLockTimeout  = "55P03"
	sqlReadOnly     = "25006"
	sqlStartingUp   = "57P03"
	sqlAdminCancel  = "57P01"
	sqlTooManyConns = "53300"
)

// transient driver text, both engines
var transientText = []string{
	"commit unexpectedly resulted in rollback",
	"could not serialize access",
	"deadlock detected",
	"database is locked",
	"sqlite_busy",
	"canceling statement due to lock timeout",
}

// PgError returns the postgres error at the root of err
func PgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if stderrs.As(Root(err), &pe) {
		return pe, true
	}
	return nil, false
}

// DBErrorCode maps a storage error to an ErrorCode; !ok when err is not from postgres
func DBErrorCode(err error) (ErrorCode, bool) {
	pe, ok := PgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch pe.Code {
	case sqlUnique:
		return ErrorCodeDuplicateKey, true
	case sqlNotNull, sqlCheck:
		return ErrorCodeValidation, true
	case sqlTooLong, sqlBadText:
		return ErrorCodeInvalidArgument, true
	case sqlReadOnly, sqlStartingUp, sqlAdminCancel, sqlTooManyConns:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromDB wraps a driver error with its mapped code, attaching the column when postgres names one
func FromDB(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	out := Wrap(err, code, msg)
	if pe, ok := PgError(err); ok && strings.TrimSpace(pe.ColumnName) != "" {
		out = WithField(out, pe.ColumnName)
	}
	return out
}

// IsRetryable reports whether a storage error is contention worth another attempt
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pe, ok := PgError(err); ok {
		switch pe.Code {
		case sqlSerialize, sqlDeadlock, sqlLockTimeout:
			return true
		}
		return false
	}
	s := strings.ToLower(Root(err).Error())
	for _, t := range transientText {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
