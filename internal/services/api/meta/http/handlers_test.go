package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"textguard/internal/core/rulepack"
	"textguard/internal/platform/config"
	lumnet "textguard/internal/platform/net"
	phttp "textguard/internal/platform/net/http"
	ptime "textguard/internal/platform/time"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func get(t *testing.T, d Deps, path string, out any) {
	t.Helper()
	srv := phttp.NewServer(config.New().Prefix("TEST_META_UNSET_"))
	srv.Router().Route("/meta", func(r phttp.Router) { Register(r, d) })
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("%s: status %d", path, rr.Code)
	}
	var rep lumnet.Reply
	if err := json.Unmarshal(rr.Body.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(rep.Data)
	if err := json.Unmarshal(b, out); err != nil {
		t.Fatal(err)
	}
}

func TestReady(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		pg, ch any
		want   string
	}{
		{"no stores", nil, nil, "ok"},
		{"both up", pinger{}, pinger{}, "ok"},
		{"ch down", pinger{}, pinger{err: errors.New("refused")}, "fail"},
		{"opaque", struct{}{}, nil, "degraded"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			var out ReadyResponse
			get(t, Deps{PG: c.pg, CH: c.ch}, "/meta/ready", &out)
			if out.Status != c.want || len(out.Checks) != 2 {
				t.Fatalf("ready = %+v", out)
			}
		})
	}
}

func TestServiceUptime(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	clk := ptime.NewManual(start)
	clk.Advance(90 * time.Second)

	var out ServiceResponse
	get(t, Deps{ServiceName: "textguard-api", StartedAt: start, Clock: clk}, "/meta/service", &out)
	if out.Uptime != 90 || out.Name != "textguard-api" {
		t.Fatalf("service = %+v", out)
	}
}

func TestRulepack(t *testing.T) {
	t.Parallel()
	var out RulepackResponse
	get(t, Deps{}, "/meta/rulepack", &out)
	if out.Version != rulepack.Version || len(out.Kinds) == 0 {
		t.Fatalf("rulepack = %+v", out)
	}
}
