package pg

import (
	"context"
	"strings"

	"zhkh/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives every statement the adapters run
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs statements under component ("pg", "sqlite") whatever the root level is.
// Argument values hold complaint text and addresses, only their count is logged.
func Tracer(root logger.Logger, component string) QueryTracer {
	return &zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", component).Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow || ev.Err != nil {
		evt = z.log.Warn()
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Int("args", len(ev.Args)).
		Err(ev.Err).
		Msg("sql query")
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
