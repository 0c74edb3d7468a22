// Package http provides the screening endpoints
package http

import (
	stdhttp "net/http"

	"textguard/internal/core/policy"
	"textguard/internal/modkit/httpkit"
	pnet "textguard/internal/platform/net"
	"textguard/internal/services/screen/domain"
)

// Register mounts the screening endpoints; callers must authenticate the tenant first
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	// text sent to the model
	httpkit.PostJSON[domain.ScreenInput](r, "/input", h.input)

	// text the model produced
	httpkit.PostJSON[domain.ScreenInput](r, "/output", h.output)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /screen/input Screen screenInput
// @Summary Screen text sent to the model
// @Tags Screen
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.ScreenInput true "Text to screen"
// @Success 200 {object} domain.ScreenOutput "verdict"
// @Failure 422 {object} net.Reply "missing or invalid tenant policy"
// @Router /screen/input [post]
func (h *handlers) input(r *stdhttp.Request, in domain.ScreenInput) (any, error) {
	return h.svc.Screen(r.Context(), policy.Input, pnet.TenantID(r.Context()), in)
}

// swagger:route POST /screen/output Screen screenOutput
// @Summary Screen text produced by the model
// @Tags Screen
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.ScreenInput true "Text to screen"
// @Success 200 {object} domain.ScreenOutput "verdict"
// @Failure 422 {object} net.Reply "missing or invalid tenant policy"
// @Router /screen/output [post]
func (h *handlers) output(r *stdhttp.Request, in domain.ScreenInput) (any, error) {
	return h.svc.Screen(r.Context(), policy.Output, pnet.TenantID(r.Context()), in)
}
