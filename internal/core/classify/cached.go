package classify

import (
	"context"
	"crypto/sha256"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached remembers successful results by the SHA-256 of the text
type Cached struct {
	next  Classifier
	cache *lru.Cache[[sha256.Size]byte, Result]
}

// NewCached keeps up to size results; size <= 0 disables caching
func NewCached(next Classifier, size int) Classifier {
	if size <= 0 {
		return next
	}
	c, err := lru.New[[sha256.Size]byte, Result](size)
	if err != nil {
		return next
	}
	return &Cached{next: next, cache: c}
}

// Classify serves a hit with StrategyCache, errors are never cached
func (c *Cached) Classify(ctx context.Context, text string) (Result, error) {
	key := sha256.Sum256([]byte(text))
	if res, ok := c.cache.Get(key); ok {
		res.Strategy = StrategyCache
		return res, nil
	}
	res, err := c.next.Classify(ctx, text)
	if err != nil {
		return res, err
	}
	c.cache.Add(key, res)
	return res, nil
}

// Len is the number of cached results
func (c *Cached) Len() int { return c.cache.Len() }
