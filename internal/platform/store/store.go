// Package store opens the optional storage backends of the screening service:
// Postgres for tenant policies and ClickHouse for screening results
package store

import (
	"context"
	"errors"
	"fmt"

	"textguard/internal/platform/logger"
)

// Store is the facade for optional backends
// zero value is safe but does nothing
type Store struct {
	Log logger.Logger

	// PG is the postgres seam, nil when disabled
	PG TxRunner

	// CH is the clickhouse seam, nil when disabled
	CH Clickhouse
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag reports the outcome of a write
type CommandTag interface {
	RowsAffected() int64
}

// RowQuerier is the sql surface repos use
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar write seam
// rows are positional and must match the column order of the table
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Ping(ctx context.Context) error
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store with the requested backends
// backends not enabled in cfg remain nil
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Str("component", "store").Logger()

	if cfg.PG.Enabled {
		p, err := openPG(ctx, cfg.PG, s)
		if err != nil {
			return nil, fmt.Errorf("store: pg: %w", err)
		}
		s.PG = p
	}
	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg.CH, s)
		if err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("store: ch: %w", err)
		}
		s.CH = c
	}
	return s, nil
}

// Guard pings every configured backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("pg: %w", err))
		}
	}
	if s.CH != nil {
		if err := s.CH.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("ch: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close shuts down initialized backends; nil backends are ignored
func (s *Store) Close(_ context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.CH != nil {
		if err := s.CH.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
