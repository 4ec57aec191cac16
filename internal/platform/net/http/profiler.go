package http

import (
	stdhttp "net/http"

	mw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler exposes pprof under prefix, e.g. /debug/pprof/heap for "/debug"
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	r.Handle(prefix+"/*", stdhttp.StripPrefix(prefix, mw.Profiler()))
}
