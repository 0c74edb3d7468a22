// @title         textguard API
// @version       0.1.0
// @description   Screens text for prompt injection and unsafe output
// @BasePath      /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"textguard/internal/core/version"
	"textguard/internal/modkit"
	"textguard/internal/modkit/repokit"
	"textguard/internal/platform/config"
	"textguard/internal/platform/logger"
	"textguard/internal/platform/metrics"
	phttp "textguard/internal/platform/net/http"
	"textguard/internal/platform/store"

	"textguard/internal/services/api"
	screenmod "textguard/internal/services/screen/module"
	"textguard/internal/services/screen/repo"

	"golang.org/x/sync/errgroup"
)

func main() {
	// .env is optional; real env wins
	_ = config.LoadDotEnv()

	lo := logger.FromEnv()
	lo.Service = version.Service
	logger.Init(lo)
	l := logger.Get()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// both stores are optional: policies may come from a file and results may go to the log
	pgURL := pgCfg.MayString("DBURL", "")
	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{
			Enabled:     pgURL != "",
			URL:         pgURL,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			ClientName: "textguard",
			ClientTag:  "api",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	if st.PG != nil && pgCfg.MayBool("MIGRATE", true) {
		if err := repo.EnsureSchema(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("screen schema")
		}
	}

	deps := modkit.Deps{Log: l, Cfg: root, Metrics: metrics.New()}.FromStore(st)

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)
	screen := api.Mount(srv.Router(), api.Options{
		Config:         apiCfg,
		Deps:           deps,
		Screen:         screenmod.FromConfig(root),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		EnableMetrics:  apiCfg.MayBool("METRICS", true),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return screen.Watch(gctx) })
	if err := g.Wait(); err != nil {
		l.Error().Err(err).Msg("api stopped")
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := screen.Close(sctx); err != nil {
		l.Warn().Err(err).Msg("alerts still in flight at shutdown")
	}
}
