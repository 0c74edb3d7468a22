package middleware

import (
	"net/http"
	"time"

	"textguard/internal/platform/logger"
	"textguard/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow logs requests at or above this latency at warn; 0 disables
	Slow time.Duration
	// Metrics receives per-route counters when set
	Metrics *metrics.Registry
}

// AccessLog logs one line per request and feeds the HTTP metrics
func AccessLog(opt AccessLogOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := ""
			if rc := chi.RouteContext(r.Context()); rc != nil {
				route = rc.RoutePattern()
			}
			opt.Metrics.ObserveHTTP(route, r.Method, status, elapsed)

			log := logger.C(r.Context())
			evt := log.Info()
			switch {
			case status >= http.StatusInternalServerError:
				evt = log.Error()
			case opt.Slow > 0 && elapsed >= opt.Slow:
				evt = log.Warn()
			}
			evt.Int("status", status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("bytes", ww.BytesWritten()).
				Msg("request done")
		})
	}
}
