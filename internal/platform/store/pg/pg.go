// Package pg opens the Postgres pool that backs the tenant policy store
package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures pgxpool
type Config struct {
	URL      string
	MaxConns int32
	SlowMs   int
}

// PG bundles the pool with the optional query tracer
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var newPool = pgxpool.NewWithConfig

// Open parses the DSN, applies the optional pool mutator and creates the pool
// connectivity is checked by the caller
func Open(ctx context.Context, cfg Config, tracer QueryTracer, mutate func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if pcfg.ConnConfig.RuntimeParams["application_name"] == "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = "textguard"
	}
	if mutate != nil {
		mutate(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Close closes the pool; nil safe
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
