// Package middleware adapts chi middleware and holds the in-house ones (access log, auth, panic JSON)
package middleware

import (
	"compress/flate"
	"net/http"
	"time"

	pnet "textguard/internal/platform/net"
	pstrings "textguard/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the stdlib middleware shape
type Middleware = func(http.Handler) http.Handler

// RequestID accepts or mints X-Request-ID, echoes it and mirrors it onto the logger context
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return chimw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chimw.GetReqID(r.Context())
			w.Header().Set(chimw.RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(pnet.WithRequest(r.Context(), id, "")))
		}))
	}
}

// RealIP sets RemoteAddr from X-Forwarded-For / X-Real-IP
func RealIP() Middleware { return chimw.RealIP }

// Timeout cancels the request context after d
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// NoCache disables client and proxy caching
func NoCache() Middleware { return chimw.NoCache }

// Compress gzips/deflates responses at level
func Compress(level int) Middleware { return chimw.Compress(level) }

// Heartbeat answers GET path with 200 for load balancers
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS wraps go-chi/cors; the screening API only needs GET and POST
func CORS(o CORSOptions) Middleware {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   pstrings.IfEmpty(o.AllowedOrigins, []string{"*"}),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Authorization", "Content-Type", chimw.RequestIDHeader}),
		ExposedHeaders:   []string{chimw.RequestIDHeader},
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}

// Defaults is the stack every API router starts with
func Defaults(timeout time.Duration) []Middleware {
	return []Middleware{
		RealIP(),
		RequestID(),
		RecoverJSON,
		Timeout(timeout),
		Compress(flate.DefaultCompression),
		NoCache(),
	}
}
