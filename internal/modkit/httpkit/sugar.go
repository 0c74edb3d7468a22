package httpkit

import (
	"net/http"

	phttp "textguard/internal/platform/net/http"
)

// Get mounts a body-less handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) { r.Get(path, Call(h)) }

// PostJSON mounts a decoded and validated JSON handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}
