// Package dbx holds the small database plumbing shared by all
// repositories: the DBTX interface that lets a repository run against
// either a pooled connection or an open transaction, and WithTx for
// running a function transactionally.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql that repositories use.
// Both *sql.DB and *sql.Tx satisfy it, so the same repository code can
// run pooled or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction, runs fn against it, and commits on
// success. On error or panic the transaction is rolled back; panics are
// rethrown after the rollback.
func WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
