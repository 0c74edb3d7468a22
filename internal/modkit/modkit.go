// Package modkit wires API modules: shared deps, build options and the route mounting they all share
package modkit

import (
	"net/http"

	phttp "textguard/internal/platform/net/http"
	str "textguard/internal/platform/strings"
)

// Module is the surface every API module exposes
type Module interface {
	// MountRoutes mounts the module under its prefix on r
	MountRoutes(r phttp.Router)
	// Ports returns the module's port set for cross wiring, or nil
	Ports() any
	Name() string
}

// Base implements Module from a Built; modules embed it and set Register
type Base struct {
	Built
	ports any
}

// NewBase builds a Base from defaults followed by caller options
func NewBase(defaults []Option, opts ...Option) *Base {
	return &Base{Built: Build(append(defaults, opts...)...)}
}

// SetPorts replaces the port set returned by Ports
func (b *Base) SetPorts(p any) { b.ports = p }

// MountRoutes opens the prefix route, applies module middleware and registers endpoints
func (b *Base) MountRoutes(r phttp.Router) {
	r.Route(str.MustPrefix(b.Prefix), func(rr phttp.Router) {
		for _, mw := range b.Mw {
			rr.Use(mw)
		}
		rr = b.Subrouter(rr)
		b.Register(rr)
	})
}

// Ports implements Module; an explicitly set port set wins over the injected one
func (b *Base) Ports() any {
	if b.ports != nil {
		return b.ports
	}
	return b.Built.Ports
}

// Name implements Module
func (b *Base) Name() string { return b.Built.Name }

// Middlewares returns the per-module middleware in order
func (b *Base) Middlewares() []func(http.Handler) http.Handler { return b.Mw }
