// Package config reads process configuration from environment variables
// through prefixed views, after an optional .env file has been loaded
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"zhkh/internal/platform/logger"
)

// Conf is a namespaced view over the environment, e.g. New().Prefix("GIGACHAT_")
type Conf struct{ prefix string }

// New creates a root Conf with no prefix
func New() Conf { return Conf{} }

// Prefix returns a child view, prefixes stack
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// may parses key with parse, def covers both unset and unparsable values
func may[T any](c Conf, key string, def T, kind string, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().
			Str("key", c.key(key)).
			Str("value", s).
			Interface("default", def).
			Msgf("invalid %s, using default", kind)
		return def
	}
	return v
}

// MustString panics when key is unset or blank
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the trimmed value or def
func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def, logging when the value does not parse
func (c Conf) MayInt(key string, def int) int {
	return may(c, key, def, "int", strconv.Atoi)
}

// MayFloat64 returns the value or def, logging when the value does not parse
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, "float", func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value or def, logging when the value does not parse
func (c Conf) MayBool(key string, def bool) bool {
	return may(c, key, def, "bool", strconv.ParseBool)
}

// MayDuration returns the value or def; values look like 250ms or 10s
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, "duration", time.ParseDuration)
}

// MayCSV splits a comma separated value, dropping blanks; def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for p := range strings.SplitSeq(c.lookup(key), ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value when it matches one of allowed, ignoring case,
// def when unset, and panics on anything else
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
