// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"

	"kycdesk/internal/platform/store"
)

type (
	// Queryer is the minimal read and write surface for SQL repos
	Queryer = store.RowQuerier

	// TxRunner can execute a function inside a transaction
	TxRunner = store.TxRunner

	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row

	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag

	// Clickhouse is the append-only analytics seam
	Clickhouse = store.Clickhouse
)

// WithTx runs fn inside a transaction and binds a repo to the tx queryer
// the repo never sees the pool, so every statement in fn shares one transaction
func WithTx[T any](ctx context.Context, tx TxRunner, b Binder[T], fn func(T) error) error {
	return tx.Tx(ctx, func(q Queryer) error {
		return fn(MustBind(b, q))
	})
}
