// Package rules loads the keyword rulepack and matches normalized text against it
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"zhkh/internal/core/category"
	"zhkh/internal/core/normalize"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embedded []byte

type rawEntry struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

type rawPack struct {
	Version    int        `yaml:"version"`
	Categories []rawEntry `yaml:"categories"`
}

// Pack is a compiled rulepack; safe for concurrent use after Load
type Pack struct {
	Version int

	// Keywords per category in normalized form, deduped, file order kept
	Keywords map[category.Category][]string

	ac    *automaton
	owner []category.Category // keyword id -> category
	terms []string            // keyword id -> keyword
	norm  *normalize.Normalizer
}

// Match is the winning category and the keyword that decided it
type Match struct {
	Category category.Category
	Keyword  string
}

// Load compiles the embedded rulepack
func Load() (*Pack, error) { return Parse(embedded) }

// LoadFile compiles a rulepack from disk; an empty path means the embedded one
func LoadFile(path string) (*Pack, error) {
	if path == "" {
		return Load()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: read %s: %w", path, err)
	}
	p, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("rules: %s: %w", path, err)
	}
	return p, nil
}

// Parse compiles a YAML rulepack
func Parse(b []byte) (*Pack, error) {
	var rp rawPack
	if err := yaml.Unmarshal(b, &rp); err != nil {
		return nil, fmt.Errorf("rules: parse yaml: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("rules: unsupported version %d (want 1)", rp.Version)
	}

	p := &Pack{
		Version:  rp.Version,
		Keywords: make(map[category.Category][]string, len(rp.Categories)),
		ac:       newAutomaton(),
		norm:     normalize.New(),
	}
	seen := make(map[string]struct{})
	for _, e := range rp.Categories {
		c, ok := category.Lookup(e.Category)
		if !ok {
			return nil, fmt.Errorf("rules: unknown category %q", e.Category)
		}
		if c == category.Other {
			return nil, fmt.Errorf("rules: %q is the fallback and takes no keywords", e.Category)
		}
		for _, kw := range e.Keywords {
			kw = p.norm.Normalize(kw)
			if kw == "" {
				continue
			}
			key := c.String() + "\x00" + kw
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			p.ac.add([]byte(kw), len(p.terms))
			p.terms = append(p.terms, kw)
			p.owner = append(p.owner, c)
			p.Keywords[c] = append(p.Keywords[c], kw)
		}
	}
	if len(p.terms) == 0 {
		return nil, fmt.Errorf("rules: no keywords")
	}
	p.ac.build()
	return p, nil
}

// Match normalizes text and returns the highest priority category with a keyword in it,
// Other with an empty keyword when nothing hits
func (p *Pack) Match(text string) Match {
	best := Match{Category: category.Other}
	norm := p.norm.Normalize(text)
	if norm == "" {
		return best
	}
	p.ac.scan([]byte(norm), func(id int) bool {
		c := p.owner[id]
		if c < best.Category {
			best = Match{Category: c, Keyword: p.terms[id]}
		}
		// nothing outranks the first category
		return best.Category != category.All()[0]
	})
	return best
}

// String lists the categories and keyword counts, for logs
func (p *Pack) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rules v%d:", p.Version)
	for _, c := range category.All() {
		if n := len(p.Keywords[c]); n > 0 {
			fmt.Fprintf(&b, " %s=%d", c, n)
		}
	}
	return b.String()
}
