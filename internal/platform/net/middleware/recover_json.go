package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	perr "textguard/internal/platform/errors"
	"textguard/internal/platform/logger"
	pnet "textguard/internal/platform/net"
)

// RecoverJSON turns a handler panic into a JSON 500 and logs the stack with the request id
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			rep := pnet.Failure(perr.PanicErrf("internal error"), reqID)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(rep.StatusCode)
			_ = json.NewEncoder(w).Encode(rep)
		}()
		next.ServeHTTP(w, r)
	})
}
