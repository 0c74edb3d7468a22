package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"textguard/internal/modkit"
	"textguard/internal/modkit/module"
	"textguard/internal/platform/config"
	"textguard/internal/platform/metrics"
	phttp "textguard/internal/platform/net/http"
	kit "textguard/internal/platform/testkit"
	screenmod "textguard/internal/services/screen/module"
)

func TestMountServesModules(t *testing.T) {
	kit.Serial(t)
	t.Cleanup(module.Reset)

	path := filepath.Join(t.TempDir(), "policies.yaml")
	body := "policies:\n  - tenant_id: acme\n    input:\n      enabled: [gazetteer]\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := config.New().Prefix("TEST_API_UNSET_")
	so := screenmod.FromConfig(cfg)
	so.PolicyFile = path
	so.ProbeRedirects = false

	srv := phttp.NewServer(cfg)
	screen := Mount(srv.Router(), Options{
		Config:        cfg,
		Deps:          modkit.Deps{Cfg: cfg, Metrics: metrics.New()},
		Screen:        so,
		EnableMetrics: true,
	})
	if screen == nil {
		t.Fatalf("screen module not returned")
	}
	if _, ok := module.PortsAs[screenmod.Ports]("screen"); !ok {
		t.Fatalf("screen ports not registered")
	}

	do := func(method, path, auth, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)
		return rr.Code
	}

	if c := do(http.MethodGet, "/api/v1/meta/health", "", ""); c != http.StatusOK {
		t.Fatalf("health = %d", c)
	}
	if c := do(http.MethodPost, "/api/v1/screen/input", "Bearer acme", `{"text":"i have a bomb"}`); c != http.StatusOK {
		t.Fatalf("screen = %d", c)
	}
	if c := do(http.MethodGet, "/metrics", "", ""); c != http.StatusOK {
		t.Fatalf("metrics = %d", c)
	}
	if c := do(http.MethodGet, "/api/docs/doc.json", "", ""); c != http.StatusNotFound {
		t.Fatalf("docs should be off, got %d", c)
	}
}
