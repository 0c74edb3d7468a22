// Package module wires the screen service into the API using modkit
package module

import (
	"context"

	"textguard/internal/adapters/alerting/webhook"
	"textguard/internal/adapters/policyfile"
	"textguard/internal/adapters/reputation/virustotal"
	"textguard/internal/core/engine"
	"textguard/internal/core/linkcheck"
	"textguard/internal/core/rulepack"
	"textguard/internal/modkit"
	"textguard/internal/modkit/httpkit"
	"textguard/internal/services/screen/domain"
	screenhttp "textguard/internal/services/screen/http"
	"textguard/internal/services/screen/repo"
	"textguard/internal/services/screen/service"
)

// Ports exposed by the screen module
type Ports struct {
	Screener domain.ServicePort
	Policies domain.PolicyStore
}

// Module implements modkit.Module
type Module struct {
	*modkit.Base
	svc  *service.Svc
	file *policyfile.Store
	opts Options
}

// New constructs the screen module. Wiring problems (no policy source, a
// broken rule pack or policy file) panic
func New(deps modkit.Deps, o Options, opts ...modkit.Option) *Module {
	log := deps.Logger().With().Str("module", "screen").Logger()
	m := &Module{opts: o}

	var policies domain.PolicyStore
	switch {
	case o.PolicyFile != "":
		f, err := policyfile.Open(o.PolicyFile)
		if err != nil {
			panic(err)
		}
		m.file, policies = f, f
		log.Info().Str("file", o.PolicyFile).Int("tenants", f.Tenants()).Msg("policies from file")
	case deps.PG != nil:
		policies = repo.NewPolicyStore(deps.PG, repo.NewPG(), o.PolicyTimeout)
		log.Info().Msg("policies from postgres")
	default:
		panic("screen module: set CORE_SCREEN_POLICY_FILE or enable postgres")
	}

	metrics := engine.NewMetrics(deps.Metrics.Registerer())
	linkOpts := []linkcheck.Option{linkcheck.WithSkipHook(metrics.ReputationSkipped)}
	if o.ProbeRedirects {
		linkOpts = append(linkOpts, linkcheck.WithProber(linkcheck.NewHTTPProber(o.ProbeTimeout)))
	}
	if o.VirusTotal.APIKey != "" {
		linkOpts = append(linkOpts, linkcheck.WithReputation(
			virustotal.New(o.VirusTotal),
			linkcheck.NewLimiter(o.ReputationCooldown),
		))
	} else {
		log.Info().Msg("no virustotal key; reputation lookups off")
	}

	reg, err := engine.Default(rulepack.MustDefault(), linkOpts...)
	if err != nil {
		panic(err)
	}
	eng := engine.New(policies, reg, engine.WithTimeout(o.Timeout), engine.WithMetrics(metrics))

	svcOpts := []service.Option{
		service.WithAlertTimeout(o.AlertTimeout),
		service.WithMaxInflightAlerts(o.MaxInflightAlerts),
	}
	if deps.CH != nil {
		svcOpts = append(svcOpts, service.WithResults(repo.NewCHResults(deps.CH)))
	} else {
		svcOpts = append(svcOpts, service.WithResults(repo.LogResults{}))
	}
	if o.Alerts.URL != "" {
		svcOpts = append(svcOpts, service.WithAlerts(webhook.New(o.Alerts)))
	}
	m.svc = service.New(eng, svcOpts...)

	m.Base = modkit.NewBase([]modkit.Option{
		modkit.WithName("screen"),
		modkit.WithPrefix("/screen"),
		modkit.WithMiddlewares(httpkit.TenantAuth()),
		modkit.WithRegister(func(r httpkit.Router) { screenhttp.Register(r, m.svc) }),
	}, opts...)
	m.SetPorts(Ports{Screener: m.svc, Policies: policies})
	return m
}

// Watch hot reloads the policy file until ctx is done; without a file or
// with reload disabled it returns at once
func (m *Module) Watch(ctx context.Context) error {
	if m.file == nil || m.opts.PolicyReload <= 0 {
		return nil
	}
	return m.file.Watch(ctx, m.opts.PolicyReload, nil)
}

// Close waits for in flight alerts
func (m *Module) Close(ctx context.Context) error { return m.svc.Close(ctx) }
