package modkit

import "net/http"

// Option mutates build configuration for a module
type Option func(*buildCfg)

type buildCfg struct {
	name   string
	prefix string
	hasPfx bool
	mw     []func(http.Handler) http.Handler
}

// WithName sets a module name used in logs
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPrefix mounts a module under a path prefix; "" mounts at the parent root
func WithPrefix(prefix string) Option {
	return func(c *buildCfg) { c.prefix, c.hasPfx = prefix, true }
}

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}
