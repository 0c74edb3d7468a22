package pg

import (
	"context"
	"errors"
	"testing"

	"textguard/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen_ParseError(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen_NewPoolError(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})
	if _, err := Open(context.Background(), Config{URL: "postgres://u:p@h:5432/db"}, nil, nil); err == nil {
		t.Fatalf("expected newPool error")
	}
}

func TestOpen_AppliesConfig(t *testing.T) {
	testkit.Serial(t)

	var seen *pgxpool.Config
	testkit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return &pgxpool.Pool{}, nil
	})

	mutated := false
	p, err := Open(context.Background(), Config{URL: "postgres://u:p@h:5432/db", MaxConns: 7, SlowMs: 250}, nil, func(*pgxpool.Config) {
		mutated = true
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !mutated || seen.MaxConns != 7 || p.SlowMs != 250 {
		t.Fatalf("config not applied: mutated=%v max=%d slow=%d", mutated, seen.MaxConns, p.SlowMs)
	}
	if got := seen.ConnConfig.RuntimeParams["application_name"]; got != "textguard" {
		t.Fatalf("application_name = %q", got)
	}
}

func TestClose_NilSafe(t *testing.T) {
	t.Parallel()
	var p *PG
	p.Close()
	(&PG{}).Close()
}
