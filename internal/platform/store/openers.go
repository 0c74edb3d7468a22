package store

import (
	"context"
	"fmt"
	"time"

	chx "textguard/internal/platform/store/ch"
	"textguard/internal/platform/store/pg"
)

// sleep is a seam so boot retries can be tested without waiting
var sleep = time.Sleep

// openPG opens the pool and only publishes the adapter once a ping succeeds
func openPG(ctx context.Context, cfg PGConfig, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	p, err := pg.Open(ctx, pg.Config{URL: cfg.URL, MaxConns: cfg.MaxConns, SlowMs: cfg.SlowQueryMs}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.ConnectRetries
	if attempts <= 0 {
		attempts = 10
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	backoff := 150 * time.Millisecond
	var lastErr error
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Dur("backoff", backoff).Msg("postgres not ready")
		sleep(backoff)
		backoff = min(backoff*2, 2*time.Second)
	}
	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg CHConfig, s *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.URL,
		ClientName: cfg.ClientName,
		ClientTag:  cfg.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info().Str("client", cfg.ClientName).Str("tag", cfg.ClientTag).Msg("clickhouse connected")
	return c, nil
}
