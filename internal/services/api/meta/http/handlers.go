// Package http serves liveness, readiness and build information
package http

import (
	"context"
	"net/http"
	"time"

	"textguard/internal/core/policy"
	"textguard/internal/core/rulepack"
	"textguard/internal/core/version"
	"textguard/internal/modkit/httpkit"
	ptime "textguard/internal/platform/time"
)

// readyTimeout bounds all dependency pings of one readiness call
const readyTimeout = 2 * time.Second

// Pinger is satisfied by the store seams
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies. PG and CH are left nil when the store
// is disabled; anything that is not a Pinger reports unknown
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	Clock       ptime.Clock
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{Deps: d}
	h.Clock = ptime.OrSystem(d.Clock)

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/rulepack", h.rulepack)
}

type handlers struct{ Deps }

// HealthResponse reports liveness
type HealthResponse struct {
	OK      bool   `json:"ok" example:"true"`
	Service string `json:"service" example:"textguard-api"`
	Started string `json:"started" example:"2026-10-19T13:00:00Z"`
	Now     string `json:"now" example:"2026-10-19T13:05:00Z"`
}

// Check status values
const (
	StatusOK       = "ok"
	StatusFail     = "fail"
	StatusSkipped  = "skipped"
	StatusUnknown  = "unknown"
	StatusDegraded = "degraded"
)

// ReadyCheck is one dependency probe
type ReadyCheck struct {
	Name   string `json:"name" example:"pg"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse is ok when every configured store answers, fail when one
// does not and degraded when one cannot be probed
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now" example:"2026-10-19T13:05:00Z"`
}

// ServiceResponse reports uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name" example:"textguard-api"`
	Started string `json:"started" example:"2026-10-19T13:00:00Z"`
	Uptime  int64  `json:"uptime" example:"300"`
}

// RulepackResponse reports the embedded rule pack and the detector kinds a policy may enable
type RulepackResponse struct {
	Version int               `json:"version" example:"3"`
	Kinds   []policy.Kind     `json:"kinds"`
	Build   version.BuildInfo `json:"build"`
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.ServiceName, Started: stamp(h.StartedAt), Now: stamp(h.Clock.Now())}, nil
}

// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	out := ReadyResponse{Status: StatusOK, Now: stamp(h.Clock.Now())}
	for _, dep := range []struct {
		name string
		v    any
	}{{"pg", h.PG}, {"ch", h.CH}} {
		c := probe(ctx, dep.name, dep.v)
		switch {
		case c.Status == StatusFail:
			out.Status = StatusFail
		case c.Status == StatusUnknown && out.Status == StatusOK:
			out.Status = StatusDegraded
		}
		out.Checks = append(out.Checks, c)
	}
	return out, nil
}

func probe(ctx context.Context, name string, v any) ReadyCheck {
	if v == nil {
		return ReadyCheck{Name: name, Status: StatusSkipped}
	}
	p, ok := v.(Pinger)
	if !ok {
		return ReadyCheck{Name: name, Status: StatusUnknown}
	}
	if err := p.Ping(ctx); err != nil {
		return ReadyCheck{Name: name, Status: StatusFail, Error: err.Error()}
	}
	return ReadyCheck{Name: name, Status: StatusOK}
}

// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(*http.Request) (any, error) {
	up := h.Clock.Now().Sub(h.StartedAt)
	return ServiceResponse{Name: h.ServiceName, Started: stamp(h.StartedAt), Uptime: int64(up / time.Second)}, nil
}

// @Summary Embedded rule pack version and detector kinds
// @Tags Meta
// @Produce json
// @Success 200 {object} RulepackResponse
// @Router /meta/rulepack [get]
func (h *handlers) rulepack(*http.Request) (any, error) {
	return RulepackResponse{Version: rulepack.Version, Kinds: policy.Kinds(), Build: version.Info()}, nil
}
