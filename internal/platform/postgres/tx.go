// Copyright (c) 2026 TaskHive. All rights reserved.

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive/internal/platform/ctxkey"
)

// Querier is the statement surface shared by *pgxpool.Pool and pgx.Tx.
//
// Repositories execute against a Querier so the same query code runs either
// directly on the pool or inside an open transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRunner scopes multi-statement writes to a single transaction.
//
// # Discipline
//
// Every multi-statement write (insert account, insert-then-read-back token,
// mark-used-then-verify) runs begin → execute → commit, with rollback on any
// error — including context cancellation — and the connection released on
// every exit path. A partially-applied transaction is never left committed.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner creates a [TxRunner] over the given pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// InTx runs fn inside a single transaction.
//
// The open pgx.Tx travels in the derived context; repositories pick it up via
// [QuerierFrom], so fn can call ordinary repository methods and have their
// statements join the transaction transparently. Nested calls reuse the
// already-open transaction rather than starting a second one.
func (runner *TxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	tx, err := runner.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin tx failed: %w", err)
	}

	txCtx := context.WithValue(ctx, ctxkey.KeyTx, tx)

	defer func() {
		// Rollback is a no-op after a successful commit; it guarantees the
		// connection is released even when fn panics or the ctx is cancelled.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(txCtx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit tx failed: %w", err)
	}
	return nil
}

// QuerierFrom returns the in-flight transaction from ctx if one is open,
// falling back to the pool for single-statement operations.
func QuerierFrom(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return pool
}

func txFrom(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(ctxkey.KeyTx).(pgx.Tx)
	return tx
}
