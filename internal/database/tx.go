package database

import (
	"context"
	"database/sql"
	"fmt"
)

// WithinTx runs fn inside a transaction.  The transaction is rolled
// back when fn returns an error and committed otherwise, so callers
// never hold a dangling transaction on any path.  The error from fn is
// returned unchanged to keep sentinel comparisons working.
func WithinTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
