package classify

import (
	"context"
	"fmt"
	"time"

	"zhkh/internal/core/category"
	"zhkh/internal/core/template"
	perr "zhkh/internal/platform/errors"
	"zhkh/internal/platform/logger"
)

// Fallback runs primary and answers from secondary on any error or panic
// Classify never returns an error
type Fallback struct {
	primary   Classifier
	secondary Classifier
	obs       Observer
	now       func() time.Time
}

// FallbackOption configures a Fallback
type FallbackOption func(*Fallback)

// WithObserver reports every result and every fallback
func WithObserver(o Observer) FallbackOption {
	return func(f *Fallback) {
		if o != nil {
			f.obs = o
		}
	}
}

// NewFallback composes primary over secondary
func NewFallback(primary, secondary Classifier, opts ...FallbackOption) *Fallback {
	f := &Fallback{primary: primary, secondary: secondary, obs: nopObserver{}, now: time.Now}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Classify always yields a Result
func (f *Fallback) Classify(ctx context.Context, text string) (Result, error) {
	start := f.now()
	res, err := safe(ctx, f.primary, text)
	if err == nil {
		f.obs.Classified(string(res.Strategy), res.Category.String(), f.now().Sub(start))
		return res, nil
	}

	reason := Reason(err)
	logger.C(ctx).Warn().Err(err).Str("reason", reason).Msg("remote classification failed, using rules")
	f.obs.FellBack(reason)

	res, err = safe(ctx, f.secondary, text)
	if err != nil {
		logger.C(ctx).Error().Err(err).Msg("rules classification failed")
		res = Result{Category: category.Other, Address: template.NotSpecified, Strategy: StrategyRules}
	}
	f.obs.Classified(string(res.Strategy), res.Category.String(), f.now().Sub(start))
	return res, nil
}

func safe(ctx context.Context, c Classifier, text string) (res Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = perr.PanicErrf("classifier panic: %v", fmt.Sprint(v))
		}
	}()
	return c.Classify(ctx, text)
}
