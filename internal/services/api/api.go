// Package api provides the HTTP API for the application
package api

import (
	"textguard/internal/platform/config"
	phttp "textguard/internal/platform/net/http"
	ptime "textguard/internal/platform/time"

	"textguard/internal/modkit"
	"textguard/internal/modkit/httpkit"
	"textguard/internal/modkit/module"
	"textguard/internal/modkit/swaggerkit"

	metamod "textguard/internal/services/api/meta/module"
	screenmod "textguard/internal/services/screen/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Deps           modkit.Deps
	Screen         screenmod.Options
	Clock          ptime.Clock
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
}

// Mount mounts the API service onto the given router and returns the
// screen module so the caller owns its watch and shutdown
func Mount(r phttp.Router, opt Options) *screenmod.Module {
	screen := screenmod.New(opt.Deps, opt.Screen)

	mods := []module.Module{
		metamod.New(opt.Deps, opt.Clock),
		screen,
	}

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.EnableMetrics && opt.Deps.Metrics != nil {
		r.Handle("/metrics", opt.Deps.Metrics.Handler())
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Config, opt.Deps.Metrics), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	return screen
}
