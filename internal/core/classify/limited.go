package classify

import (
	"context"

	perr "zhkh/internal/platform/errors"

	"golang.org/x/time/rate"
)

// Limited denies calls over the rate instead of queueing them
type Limited struct {
	next Classifier
	lim  *rate.Limiter
}

// NewLimited allows rps calls per second with burst; rps <= 0 disables limiting
func NewLimited(next Classifier, rps float64, burst int) Classifier {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &Limited{next: next, lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Classify passes through when a token is available
func (l *Limited) Classify(ctx context.Context, text string) (Result, error) {
	if !l.lim.Allow() {
		return Result{}, perr.Newf(perr.ErrorCodeTooManyRequests, "classifier rate limit reached")
	}
	return l.next.Classify(ctx, text)
}
