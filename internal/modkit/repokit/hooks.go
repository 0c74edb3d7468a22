package repokit

import (
	"context"
	"fmt"
	"time"
)

// BeginHook runs first inside every transaction with the tx bound Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// StatementTimeout bounds every statement of the transaction server side
func StatementTimeout(d time.Duration) BeginHook {
	return func(ctx context.Context, q Queryer) error {
		_, err := q.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", d.Milliseconds()))
		return err
	}
}

// WithBeginHooks wraps inner so hooks run before fn inside the same tx
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	return hookedTx{TxRunner: inner, hooks: hooks}
}

type hookedTx struct {
	TxRunner
	hooks []BeginHook
}

func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hk := range h.hooks {
			if err := hk(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}
