package modkit

import (
	"net/http"

	phttp "textguard/internal/platform/net/http"
)

// Option mutates build configuration for a module
type Option func(*Built)

// Built is the resolved module configuration
type Built struct {
	Name      string
	Prefix    string
	Mw        []func(http.Handler) http.Handler
	Ports     any
	Subrouter func(phttp.Router) phttp.Router
	Register  func(phttp.Router)
}

// Build applies options in order; later options win
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	if b.Subrouter == nil {
		b.Subrouter = func(r phttp.Router) phttp.Router { return r }
	}
	if b.Register == nil {
		b.Register = func(phttp.Router) {}
	}
	b.Mw = append([]func(http.Handler) http.Handler(nil), b.Mw...)
	return b
}

// WithName sets the module name used in logs and the port registry
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix mounts the module under prefix
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends per-module middleware
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts injects a port set owned by another module
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// WithSubrouter wraps the module router before endpoints are registered
func WithSubrouter(fn func(phttp.Router) phttp.Router) Option {
	return func(b *Built) { b.Subrouter = fn }
}

// WithRegister adds endpoints after the module's own; earlier registrations still run
func WithRegister(fn func(phttp.Router)) Option {
	return func(b *Built) {
		prev := b.Register
		b.Register = func(r phttp.Router) {
			if prev != nil {
				prev(r)
			}
			fn(r)
		}
	}
}
