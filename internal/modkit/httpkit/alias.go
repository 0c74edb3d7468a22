// Package httpkit re-exports the platform http helpers modules build handlers with
// so module code never imports internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "textguard/internal/platform/net/http"
)

type (
	// Response is the return-style handler result
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error returns a response whose status comes from the error code
func Error(err error) Response { return phttp.Error(err) }

// Call adapts a body-less handler; a returned Response is written as-is
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}
