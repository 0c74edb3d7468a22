package http

import (
	"net/http"

	"textguard/internal/platform/net/http/bind"
)

// JSONHandler decodes and validates a T body, then wraps fn's result in the envelope
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}

// JSONHandlerNoBody calls fn without reading a body
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}
