package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"textguard/internal/platform/config"
	perr "textguard/internal/platform/errors"
	lumnet "textguard/internal/platform/net"
	kit "textguard/internal/platform/testkit"
)

type echoIn struct {
	Text string `json:"text" validate:"required"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) lumnet.Reply {
	t.Helper()
	var rep lumnet.Reply
	if err := json.Unmarshal(rr.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v (%s)", err, rr.Body.String())
	}
	return rep
}

func TestRouterAndJSONHandler(t *testing.T) {
	t.Parallel()

	srv := NewServer(config.New().Prefix("TEST_HTTP_UNSET_"))
	srv.Router().Route("/api", func(r Router) {
		r.Post("/echo", JSONHandler(func(_ *http.Request, in echoIn) (any, error) {
			return map[string]string{"text": in.Text}, nil
		}))
		r.Get("/boom", JSONHandlerNoBody(func(*http.Request) (any, error) {
			return nil, perr.Configf("no policy for tenant %q", "acme")
		}))
		r.Group(func(g Router) {
			g.Get("/empty", Handle(func(*http.Request) Response { return NoContent() }))
		})
	})

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"ok", http.MethodPost, "/api/echo", `{"text":"hi"}`, http.StatusOK},
		{"validation", http.MethodPost, "/api/echo", `{"text":""}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/echo", `{`, http.StatusBadRequest},
		{"config error", http.MethodGet, "/api/boom", "", http.StatusUnprocessableEntity},
		{"no content", http.MethodGet, "/api/empty", "", http.StatusNoContent},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
			rr := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rr, req)
			if rr.Code != c.status {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, c.status, rr.Body.String())
			}
			if c.status == http.StatusNoContent {
				return
			}
			if rep := decode(t, rr); rep.StatusCode != c.status {
				t.Fatalf("envelope status = %d", rep.StatusCode)
			}
		})
	}
}

func TestHandleHeadersAndRequestID(t *testing.T) {
	t.Parallel()

	h := Handle(func(*http.Request) Response {
		return Response{Body: "x", Header: http.Header{"X-Test": {"1"}}}
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(lumnet.WithRequest(req.Context(), "rid", ""))
	rr := httptest.NewRecorder()
	h(rr, req)

	if rr.Header().Get("X-Test") != "1" {
		t.Fatalf("header not copied")
	}
	rep := decode(t, rr)
	if rep.StatusCode != http.StatusOK || rep.RequestID != "rid" {
		t.Fatalf("reply = %+v", rep)
	}
}

func TestMountProfiler(t *testing.T) {
	t.Parallel()

	srv := NewServer(config.New().Prefix("TEST_HTTP_UNSET_"))
	MountProfiler(srv.Router(), "/debug", false)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("disabled profiler should 404, got %d", rr.Code)
	}

	MountProfiler(srv.Router(), "/debug", true)
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("profiler index = %d", rr.Code)
	}
}

func TestServerRunStopsOnCancel(t *testing.T) {
	kit.Serial(t)
	t.Setenv("TEST_HTTP_PORT", "127.0.0.1:0")
	t.Setenv("TEST_HTTP_SHUTDOWN_GRACE", "1s")

	srv := NewServer(config.New().Prefix("TEST_HTTP_"))
	if srv.Addr() != "127.0.0.1:0" {
		t.Fatalf("Addr = %q", srv.Addr())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestNewServerBarePort(t *testing.T) {
	kit.Serial(t)
	t.Setenv("TEST_HTTP_BARE_PORT", "8088")
	if got := NewServer(config.New().Prefix("TEST_HTTP_BARE_")).Addr(); got != ":8088" {
		t.Fatalf("Addr = %q", got)
	}
}
