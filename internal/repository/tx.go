package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Transactor opens transactions on the shared pool.
type Transactor struct {
	db *sqlx.DB
}

// NewTransactor constructs a Transactor.
func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx runs fn with exec bound to a new transaction. It commits when fn
// succeeds and rolls back otherwise.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, exec sqlx.ExtContext) error) (err error) {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// target falls back to the pool when no transaction handle is supplied.
func target(db *sqlx.DB, exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return db
}

// insertReturningID runs a named INSERT ... RETURNING id and scans the new key.
func insertReturningID(ctx context.Context, exec sqlx.ExtContext, query string, arg interface{}) (int64, error) {
	bound, args, err := exec.BindNamed(query, arg)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := exec.QueryRowxContext(ctx, bound, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// expectAffected maps a zero-row write to sql.ErrNoRows.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
