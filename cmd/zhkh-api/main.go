// @title         zhkh API
// @version       1.0
// @description   Intake, classification and triage of housing and utility complaints

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zhkh/internal/modkit"
	"zhkh/internal/modkit/repokit"
	"zhkh/internal/platform/config"
	"zhkh/internal/platform/logger"
	"zhkh/internal/platform/metrics"
	phttp "zhkh/internal/platform/net/http"
	"zhkh/internal/platform/store"

	"zhkh/internal/services/api"
	complaintsmod "zhkh/internal/services/complaints/module"
)

const service = "zhkh-api"

func main() {
	// .env first so the logger sees LOG_* from it
	if err := config.LoadDotEnv(); err != nil {
		logger.Get().Warn().Err(err).Msg("ignoring unreadable .env")
	}
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	st, err := store.Open(ctx, store.ConfigFrom(root, service), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	m := metrics.New()
	cls, err := complaintsmod.NewClassifier(ctx, complaintsmod.FromConfig(root), m)
	if err != nil {
		l.Panic().Err(err).Msg("classifier setup failed")
	}

	srv := phttp.NewServer(apiCfg)
	ports, err := api.Mount(srv.Router(), api.Options{
		Service:        service,
		Deps:           modkit.DepsFrom(root, st, m),
		Classifier:     cls,
		CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", nil),
		Timeout:        apiCfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlowRequest:    apiCfg.MayDuration("SLOW_REQUEST", time.Second),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})
	if err != nil {
		l.Panic().Err(err).Msg("api mount failed")
	}

	if err := ports.Schema.EnsureSchema(ctx); err != nil {
		l.Panic().Err(err).Msg("schema setup failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		os.Exit(1)
	}
}
