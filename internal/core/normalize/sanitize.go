package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize strips what postgres or a chat client would choke on before a
// complaint is stored: invalid UTF-8, NUL and the C0/C1 control ranges.
// Tabs and line breaks survive, the address block is multi-line.
func Sanitize(s string) string {
	if clean(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if control(r) {
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
}

func control(r rune) bool {
	switch r {
	case '\n', '\r', '\t':
		return false
	}
	return r < 0x20 || (r >= 0x7f && r <= 0x9f)
}

func clean(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if control(r) {
			return false
		}
	}
	return true
}
