package classify

import "time"

// Options tunes the composed chain
type Options struct {
	Timeout   time.Duration
	RPS       float64
	Burst     int
	CacheSize int
	Observer  Observer
}

// Compose builds Fallback(Cached(Limited(Remote(p))), rules); a nil p yields rules alone
// behind the same observer
func Compose(p Provider, rules Classifier, o Options) *Fallback {
	if p == nil {
		return NewFallback(rules, rules, WithObserver(o.Observer))
	}
	var primary Classifier = NewRemote(p, o.Timeout)
	primary = NewLimited(primary, o.RPS, o.Burst)
	primary = NewCached(primary, o.CacheSize)
	return NewFallback(primary, rules, WithObserver(o.Observer))
}
