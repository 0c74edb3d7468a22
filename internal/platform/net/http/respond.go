// Package http holds the server, router facade and JSON response helpers
package http

import (
	"encoding/json"
	stdhttp "net/http"

	lumnet "textguard/internal/platform/net"
)

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError writes err as an error envelope
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	rep := lumnet.Failure(err, lumnet.RequestID(r.Context()))
	JSON(w, rep.StatusCode, rep)
}

// Response is returned by return-style handlers
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	if resp.Status == stdhttp.StatusNoContent {
		w.WriteHeader(stdhttp.StatusNoContent)
		return
	}

	// an error body decides the status itself
	if err, ok := resp.Body.(error); ok && err != nil {
		RespondError(w, r, err)
		return
	}
	rep := lumnet.Success(resp.Status, resp.Body, lumnet.RequestID(r.Context()))
	JSON(w, rep.StatusCode, rep)
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// NoContent returns a 204 response
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error returns a response whose status comes from the error code
func Error(err error) Response { return Response{Body: err} }
