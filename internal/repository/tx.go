package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TxRunner exposes transaction scoping to service-layer consumers.
type TxRunner struct {
	db *sqlx.DB
}

// NewTxRunner wraps a database handle.
func NewTxRunner(db *sqlx.DB) *TxRunner {
	return &TxRunner{db: db}
}

// WithinTx runs fn inside a transaction on the wrapped handle.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return WithinTx(ctx, r.db, fn)
}

// WithinTx executes fn inside a database transaction. The transaction is
// rolled back when fn returns an error or panics, committed otherwise.
func WithinTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback() //nolint:errcheck
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
