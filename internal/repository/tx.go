package repository

import (
    "context"
    "database/sql"
)

// Runner executes functions inside a database transaction.  It backs
// the engine's TxRunner: commit on a nil return, rollback otherwise.
type Runner struct{ DB *sql.DB }

// NewRunner constructs a Runner over the given DB handle.
func NewRunner(db *sql.DB) *Runner { return &Runner{DB: db} }

// InTx begins a transaction, runs fn and commits when fn returns nil.
// Any error from fn (or from commit) reaches the caller after the
// transaction is rolled back.
func (r *Runner) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(tx); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
