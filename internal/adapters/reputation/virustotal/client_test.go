package virustotal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"textguard/internal/core/linkcheck"
	perr "textguard/internal/platform/errors"
)

func fakeVT(t *testing.T, malicious int, submitStatus int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v3/urls", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("x-apikey") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("url") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if submitStatus != 0 {
			w.WriteHeader(submitStatus)
			return
		}
		_, _ = fmt.Fprint(w, `{"data":{"type":"analysis","id":"u-abc-1"}}`)
	})
	mux.HandleFunc("GET /api/v3/analyses/{id}", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.PathValue("id") != "u-abc-1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprintf(w, `{"data":{"attributes":{"status":"completed","stats":{"malicious":%d,"harmless":60}}}}`, malicious)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestLookup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	for _, c := range []struct {
		malicious int
		want      bool
	}{{0, false}, {3, true}} {
		srv, calls := fakeVT(t, c.malicious, 0)
		got, err := New(Options{BaseURL: srv.URL, APIKey: "k"}).Lookup(ctx, "https://example.com/x")
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want || calls.Load() != 2 {
			t.Fatalf("malicious=%d: got %v after %d calls", c.malicious, got, calls.Load())
		}
	}
}

func TestQuotaExceeded(t *testing.T) {
	t.Parallel()
	srv, calls := fakeVT(t, 0, http.StatusTooManyRequests)
	_, err := New(Options{BaseURL: srv.URL, APIKey: "k"}).Lookup(context.Background(), "https://example.com")
	if !errors.Is(err, linkcheck.ErrQuotaExceeded) || !perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
		t.Fatalf("err = %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("quota error retried: %d calls", calls.Load())
	}
}

func TestUpstreamErrors(t *testing.T) {
	t.Parallel()
	srv, _ := fakeVT(t, 0, 0)
	_, err := New(Options{BaseURL: srv.URL, APIKey: "wrong"}).Lookup(context.Background(), "https://example.com")
	if !perr.IsCode(err, perr.ErrorCodeUnauthorized) || errors.Is(err, linkcheck.ErrQuotaExceeded) {
		t.Fatalf("err = %v", err)
	}

	srv5, _ := fakeVT(t, 0, http.StatusServiceUnavailable)
	if _, err := New(Options{BaseURL: srv5.URL, APIKey: "k"}).Lookup(context.Background(), "https://example.com"); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("5xx err = %v", err)
	}
}
