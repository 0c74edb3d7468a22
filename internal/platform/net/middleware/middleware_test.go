package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perr "textguard/internal/platform/errors"
	"textguard/internal/platform/metrics"
	pnet "textguard/internal/platform/net"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestBearerTenant(t *testing.T) {
	t.Parallel()

	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer acme-key", "acme-key", true},
		{"bearer   spaced ", "spaced", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		if c.header != "" {
			r.Header.Set("Authorization", c.header)
		}
		got, err := BearerTenant.Tenant(r)
		if c.ok != (err == nil) || got != c.want {
			t.Fatalf("%q: got %q, %v", c.header, got, err)
		}
		if err != nil && !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
			t.Fatalf("%q: code = %v", c.header, perr.CodeOf(err))
		}
	}
}

func TestAuth(t *testing.T) {
	t.Parallel()

	var seen string
	h := Auth(BearerTenant, writeJSON)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = pnet.TenantID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Authorization", "Bearer acme")
	h.ServeHTTP(httptest.NewRecorder(), r)
	if seen != "acme" {
		t.Fatalf("tenant on context = %q", seen)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rr.Code)
	}

	passed := false
	Auth(nil, writeJSON)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { passed = true })).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !passed {
		t.Fatalf("nil port should pass through")
	}
}

func TestRequestIDPropagates(t *testing.T) {
	t.Parallel()

	var inCtx string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inCtx = pnet.RequestID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(chimw.RequestIDHeader, "given-id")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if inCtx != "given-id" || rr.Header().Get(chimw.RequestIDHeader) != "given-id" {
		t.Fatalf("ctx=%q header=%q", inCtx, rr.Header().Get(chimw.RequestIDHeader))
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if inCtx == "" || rr.Header().Get(chimw.RequestIDHeader) != inCtx {
		t.Fatalf("minted id not propagated: ctx=%q", inCtx)
	}
}

func TestRecoverJSON(t *testing.T) {
	t.Parallel()

	h := RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("kaboom") }))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	var rep pnet.Reply
	if err := json.Unmarshal(rr.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Code != perr.ErrorCodePanic || strings.Contains(rep.Error, "kaboom") {
		t.Fatalf("reply leaked or miscoded: %+v", rep)
	}
}

func TestAccessLogFeedsMetrics(t *testing.T) {
	t.Parallel()

	reg := metrics.New()
	r := chi.NewRouter()
	r.Use(AccessLog(AccessLogOptions{Slow: time.Nanosecond, Metrics: reg}))
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("x"))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items/7", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rr.Code)
	}

	exp := httptest.NewRecorder()
	reg.Handler().ServeHTTP(exp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !bytes.Contains(exp.Body.Bytes(), []byte(`route="/items/{id}"`)) {
		t.Fatalf("route label missing from exposition")
	}
}

func TestCORSAndDefaults(t *testing.T) {
	t.Parallel()

	h := CORS(CORSOptions{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	r := httptest.NewRequest(http.MethodOptions, "/", nil)
	r.Header.Set("Origin", "https://app.example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("preflight not answered: %v", rr.Header())
	}

	if n := len(Defaults(time.Second)); n != 6 {
		t.Fatalf("Defaults len = %d", n)
	}
}
