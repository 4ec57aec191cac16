package classify

import (
	"context"
	"regexp"
	"strings"

	"zhkh/internal/core/rules"
	"zhkh/internal/core/template"
)

// the address runs to the end of its line; ';' is kept, unlike the template check
var addressRe = regexp.MustCompile(`(?i)Адрес[^:\n]*:[ \t]*([^\n]+)`)

// Address extracts the address line or returns template.NotSpecified
func Address(text string) string {
	m := addressRe.FindStringSubmatch(text)
	if m == nil {
		return template.NotSpecified
	}
	if a := strings.TrimSpace(m[1]); a != "" {
		return a
	}
	return template.NotSpecified
}

// Rules is the deterministic keyword strategy; it never fails
type Rules struct {
	pack *rules.Pack
}

// NewRules wraps a compiled rulepack
func NewRules(p *rules.Pack) *Rules { return &Rules{pack: p} }

// Classify matches keywords in priority order and extracts the address
func (r *Rules) Classify(_ context.Context, text string) (Result, error) {
	m := r.pack.Match(text)
	return Result{Category: m.Category, Address: Address(text), Strategy: StrategyRules}, nil
}
