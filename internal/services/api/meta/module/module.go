// Package module wires meta endpoints into the API
package module

import (
	"textguard/internal/core/version"
	"textguard/internal/modkit"
	"textguard/internal/modkit/httpkit"
	ptime "textguard/internal/platform/time"

	metahttp "textguard/internal/services/api/meta/http"
)

// Module serves health, readiness and build info
type Module struct {
	*modkit.Base
}

// New constructs a meta module; clock may be nil
func New(deps modkit.Deps, clock ptime.Clock, opts ...modkit.Option) *Module {
	clock = ptime.OrSystem(clock)
	hd := metahttp.Deps{
		ServiceName: version.Service,
		StartedAt:   clock.Now(),
		Clock:       clock,
		PG:          deps.PG,
		CH:          deps.CH,
	}

	defaults := []modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
		modkit.WithRegister(func(r httpkit.Router) { metahttp.Register(r, hd) }),
	}
	return &Module{Base: modkit.NewBase(defaults, opts...)}
}
