// Package logger wraps zerolog with the service defaults and carries
// screening request fields (request id, tenant, direction) through context
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"textguard/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the root logger
type Options struct {
	Level        string
	Format       string // console | json
	Service      string
	Writer       io.Writer
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string
}

// FromEnv reads LOG_* through the raw config view so config can log without cycles
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(rc.Get("LEVEL", "info")),
		Format:      strings.ToLower(rc.Get("FORMAT", "json")),
		Service:     rc.Get("SERVICE", "textguard"),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
)

// Logger is the project logging type
type Logger = zerolog.Logger

// Get returns the process root logger, initializing from env on first use
func Get() *Logger {
	if !inited.Load() {
		Init(FromEnv())
	}
	return root.Load()
}

// Init builds the root logger; only the first call has effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var w io.Writer = os.Stdout
		if opt.Writer != nil {
			w = opt.Writer
		}
		if opt.Format == "console" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}

		zc := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			zc = zc.Str("go_version", bi.GoVersion)
		}
		if opt.Service != "" {
			zc = zc.Str("service", opt.Service)
		}
		for k, v := range opt.StaticFields {
			zc = zc.Str(k, v)
		}

		log := zc.Logger()
		if opt.WithCaller {
			log = log.With().Caller().Logger()
		}
		if opt.SampleEvery > 1 {
			log = log.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
		}

		root.Store(&log)
		inited.Store(true)
	})
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

type ctxKey uint8

const (
	keyRequestID ctxKey = iota
	keyTenantID
	keyDirection
)

// WithRequest annotates ctx with the request id and tenant of a screening call
func WithRequest(ctx context.Context, reqID, tenantID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	if tenantID != "" {
		ctx = context.WithValue(ctx, keyTenantID, tenantID)
	}
	return ctx
}

// WithDirection annotates ctx with the screened direction (input or output)
func WithDirection(ctx context.Context, dir string) context.Context {
	if dir == "" {
		return ctx
	}
	return context.WithValue(ctx, keyDirection, dir)
}

// RequestID returns the request id stored by WithRequest
func RequestID(ctx context.Context) string {
	s, _ := ctx.Value(keyRequestID).(string)
	return s
}

// C returns a child logger enriched with the request fields found in ctx
func C(ctx context.Context) *Logger {
	b := Get().With()
	for _, f := range []struct {
		key  ctxKey
		name string
	}{
		{keyRequestID, "request_id"},
		{keyTenantID, "tenant_id"},
		{keyDirection, "direction"},
	} {
		if s, ok := ctx.Value(f.key).(string); ok && s != "" {
			b = b.Str(f.name, s)
		}
	}
	ll := b.Logger()
	return &ll
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}
