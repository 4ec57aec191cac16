// Package api assembles the HTTP surface: middleware, modules, metrics and docs
package api

import (
	"time"

	"zhkh/internal/core/classify"
	"zhkh/internal/modkit"
	"zhkh/internal/modkit/httpkit"
	"zhkh/internal/modkit/module"
	"zhkh/internal/modkit/swaggerkit"
	phttp "zhkh/internal/platform/net/http"

	metamod "zhkh/internal/services/api/meta/module"
	complaintsmod "zhkh/internal/services/complaints/module"
)

// Options are the API options
type Options struct {
	Service        string
	Deps           modkit.Deps
	Classifier     classify.Classifier
	CORSOrigins    []string
	Timeout        time.Duration
	SlowRequest    time.Duration
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount installs the middleware stack and every module on r
// routes answer at the root and again under /api/v1
func Mount(r phttp.Router, opt Options) (complaintsmod.Ports, error) {
	complaints, err := complaintsmod.New(opt.Deps, opt.Classifier)
	if err != nil {
		return complaintsmod.Ports{}, err
	}
	mods := []module.Module{
		metamod.New(opt.Deps, opt.Service),
		complaints,
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORSOrigins: opt.CORSOrigins,
		Timeout:     opt.Timeout,
		Slow:        opt.SlowRequest,
		Observe:     opt.Deps.Metrics.ObserveHTTP,
	})
	for _, mw := range stack {
		r.Use(mw)
	}

	mount := func(rr httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(rr)
		}
	}
	mount(r)
	httpkit.MountAPIV1(r, nil, mount)

	if opt.Deps.Metrics != nil {
		r.Handle("/metrics", opt.Deps.Metrics.Handler())
	}
	swaggerkit.Mount(r, opt.EnableSwagger, swaggerkit.Options{})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	return module.MustPortsOf[complaintsmod.Ports](complaints), nil
}
