// Package normalize folds complaint text into the form keyword rules match against
// Pipeline order
// 1 Sanitize control characters and invalid UTF-8
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Remove zero-width and combining marks
// 5 Width fold fullwidth forms
// 6 Fold ё to е
// 7 Collapse whitespace and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is concurrency safe when used with the pool below
type Normalizer struct{}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)), // combining marks
			runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF and friends
			width.Fold,
			runes.Map(yoFold),
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize folds s for keyword matching; the result is stable under a second pass
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}
	tr := chainPool.Get().(transform.Transformer)
	defer chainPool.Put(tr)
	tr.Reset()

	folded, _, err := transform.String(tr, Sanitize(s))
	if err != nil {
		// a broken chain leaves the input unfolded rather than dropping it
		folded = strings.ToLower(Sanitize(s))
	}
	return collapseSpaces(folded)
}

// yoFold maps ё onto е; people type both and keywords are written without it
// NFKC composes ё before the Mn strip, so the diaeresis survives until here
func yoFold(r rune) rune {
	switch r {
	case 'ё':
		return 'е'
	case 'Ё':
		return 'Е'
	}
	return r
}

// collapseSpaces squeezes each line to single spaces and drops blank lines,
// so any whitespace run holding a line break becomes one '\n'
func collapseSpaces(s string) string {
	lines := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' })
	out := lines[:0]
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
