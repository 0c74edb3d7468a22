package store

import (
	"context"
	"errors"
	"time"

	"textguard/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is what pgxpool.Pool and pgx.Tx have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced implements RowQuerier over any pgxQuerier and reports statements to the tracer
type traced struct {
	q      pgxQuerier
	tracer pg.QueryTracer
	slowUS int64
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.q.Exec(ctx, sql, args...)
	t.emit(ctx, sql, args, start, err)
	return ct, err
}

func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.q.Query(ctx, sql, args...)
	t.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := t.q.QueryRow(ctx, sql, args...)
	return rowFunc(func(dst ...any) error {
		err := r.Scan(dst...)
		t.emit(ctx, sql, args, start, err)
		return err
	})
}

func (t traced) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	us := time.Since(start).Microseconds()
	t.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: us,
		Err:       err,
		Slow:      t.slowUS > 0 && us >= t.slowUS,
	})
}

type rowFunc func(dst ...any) error

func (f rowFunc) Scan(dst ...any) error { return f(dst...) }

// pgAdapter is the TxRunner published on Store.PG
type pgAdapter struct {
	traced
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{
		traced: traced{q: p.Pool, tracer: p.Tracer, slowUS: int64(p.SlowMs) * 1000},
		p:      p,
	}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil || a.p.Pool == nil {
		return errors.New("pg: nil adapter")
	}
	return a.p.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

// Tx runs fn in a transaction, rolling back when fn fails
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(traced{q: tx, tracer: a.tracer, slowUS: a.slowUS}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
