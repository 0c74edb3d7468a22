package middleware

import (
	"net/http"
	"strings"

	perr "textguard/internal/platform/errors"
	pnet "textguard/internal/platform/net"
)

// AuthPort resolves the caller's tenant from a request
type AuthPort interface {
	Tenant(r *http.Request) (tenantID string, err error)
}

// AuthFunc adapts a function to AuthPort
type AuthFunc func(r *http.Request) (string, error)

// Tenant implements AuthPort
func (f AuthFunc) Tenant(r *http.Request) (string, error) { return f(r) }

// BearerTenant treats the bearer token as the tenant key; policy lookup decides if it is known
var BearerTenant AuthFunc = func(r *http.Request) (string, error) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	return strings.TrimSpace(token), nil
}

// Auth rejects requests the port cannot resolve and stores the tenant on the context
// write renders the error envelope so this package stays free of the http helpers
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			tid, err := p.Tenant(r)
			if err != nil {
				rep := pnet.Failure(err, pnet.RequestID(r.Context()))
				write(w, rep.StatusCode, rep)
				return
			}
			ctx := pnet.WithRequest(r.Context(), pnet.RequestID(r.Context()), tid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
