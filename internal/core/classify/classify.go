// Package classify derives a category and an address from complaint text
//
// Strategies are plain Classifiers and compose as decorators:
//
//	Fallback(Cached(Limited(Remote(provider))), Rules)
package classify

import (
	"context"
	"time"

	"zhkh/internal/core/category"
)

// Strategy names what produced a Result
type Strategy string

const (
	StrategyRules  Strategy = "rules"
	StrategyRemote Strategy = "remote"
	StrategyCache  Strategy = "cache"
)

// Result is a transient classification; only Category and Address are persisted
type Result struct {
	Category category.Category `json:"category"`
	Address  string            `json:"address"`
	Strategy Strategy          `json:"strategy"`
}

// Classifier derives a Result from raw text
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// Func adapts a function to Classifier
type Func func(ctx context.Context, text string) (Result, error)

// Classify calls f
func (f Func) Classify(ctx context.Context, text string) (Result, error) { return f(ctx, text) }

// Observer receives classification outcomes, metrics.Metrics satisfies it
type Observer interface {
	Classified(strategy, category string, took time.Duration)
	FellBack(reason string)
}

type nopObserver struct{}

func (nopObserver) Classified(string, string, time.Duration) {}
func (nopObserver) FellBack(string)                          {}
