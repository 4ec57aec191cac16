// Package strings provides small defaulting helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// Or returns s trimmed, or def when s is blank
func Or(s, def string) string {
	if t := std.TrimSpace(s); t != "" {
		return t
	}
	return def
}
