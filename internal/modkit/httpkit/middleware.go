package httpkit

import (
	"net/http"
	"time"

	"textguard/internal/platform/config"
	"textguard/internal/platform/metrics"
	phttp "textguard/internal/platform/net/http"
	"textguard/internal/platform/net/middleware"
)

// CommonStack is the middleware every versioned API scope starts with
// CORE_API_ keys: REQUEST_TIMEOUT, SLOW_REQUEST, CORS_ORIGINS
func CommonStack(cfg config.Conf, reg *metrics.Registry) []func(http.Handler) http.Handler {
	stack := middleware.Defaults(cfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second))
	return append(stack,
		middleware.AccessLog(middleware.AccessLogOptions{
			Slow:    cfg.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
			Metrics: reg,
		}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", nil)}),
	)
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}

// TenantAuth requires a bearer tenant key
func TenantAuth() func(http.Handler) http.Handler { return Auth(middleware.BearerTenant) }
