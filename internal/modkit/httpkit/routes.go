package httpkit

import "net/http"

// MountUnder mounts a subrouter at prefix and applies per-module middlewares
// an empty prefix mounts into an inline group on r
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	scoped := func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	}
	if prefix == "" || prefix == "/" {
		r.Group(scoped)
		return
	}
	r.Route(prefix, scoped)
}
