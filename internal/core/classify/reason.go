package classify

import (
	"context"
	"errors"

	perr "zhkh/internal/platform/errors"
)

const opParse = "parse"

// Fallback reasons, used as the metric label
const (
	ReasonTimeout     = "timeout"
	ReasonRateLimited = "rate_limited"
	ReasonAuthConfig  = "auth_config"
	ReasonAuthFailure = "auth_failure"
	ReasonParse       = "parse"
	ReasonPanic       = "panic"
	ReasonRemote      = "remote"
)

// Reason maps a primary strategy error to a bounded label
func Reason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	switch perr.CodeOf(err) {
	case perr.ErrorCodeTooManyRequests:
		return ReasonRateLimited
	case perr.ErrorCodeAuthConfig:
		return ReasonAuthConfig
	case perr.ErrorCodeAuthFailure:
		return ReasonAuthFailure
	case perr.ErrorCodePanic:
		return ReasonPanic
	}
	if e, ok := perr.As(err); ok && e.Op() == opParse {
		return ReasonParse
	}
	return ReasonRemote
}
