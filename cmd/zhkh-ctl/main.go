// Command zhkh-ctl is the operator tool: triage complaints, try the classifier, create the schema
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"zhkh/internal/platform/config"
	"zhkh/internal/platform/logger"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logger.Get().Warn().Err(err).Msg("ignoring unreadable .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRoot(config.New()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
