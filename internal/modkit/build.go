package modkit

import (
	"net/http"

	"zhkh/internal/modkit/httpkit"
)

// Built is the resolved option set a module keeps
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
}

// Build applies defaults first, then caller options; later options win
func Build(defaults []Option, opts ...Option) Built {
	var c buildCfg
	for _, o := range append(append([]Option(nil), defaults...), opts...) {
		o(&c)
	}
	return Built{
		Name:   c.name,
		Prefix: c.prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
	}
}

// Mount attaches register under b.Prefix with b.Mw applied
func (b Built) Mount(r httpkit.Router, register func(httpkit.Router)) {
	httpkit.MountUnder(r, b.Prefix, b.Mw, register)
}
