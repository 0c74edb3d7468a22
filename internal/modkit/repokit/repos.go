// Package repokit holds the repository-side seams: store aliases, binders, tx hooks and startup guards
package repokit

import "textguard/internal/platform/store"

type (
	// Queryer is the read and write surface SQL repos use
	Queryer = store.RowQuerier

	// TxRunner can execute a function inside a transaction
	TxRunner = store.TxRunner

	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single result row
	Row = store.Row

	// CommandTag is the outcome of a write
	CommandTag = store.CommandTag
)

// Binder binds a domain repo to a Queryer (pool or tx)
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a function to Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind binds after rejecting a nil Queryer
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}
