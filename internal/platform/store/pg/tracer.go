package pg

import (
	"context"
	"strings"

	"textguard/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one traced statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives statement events from the sql adapter
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement when SQL logging is on, regardless of the root level
// slow statements are logged at warn
func Tracer(root logger.Logger) QueryTracer {
	return &zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds all whitespace runs into single spaces
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }
