package httpkit

import (
	"net/http"
	"strings"
)

// MountAPI mounts a subrouter under /api/{version} with scope middleware, then calls mount
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/"+strings.Trim(version, "/"), func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}

// MountAPIV1 is MountAPI for v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
