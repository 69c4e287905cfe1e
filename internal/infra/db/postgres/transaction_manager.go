package postgres

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// executor is what both *pgxpool.Pool and pgx.Tx offer.
type executor interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// TxManager begins a transaction, invokes the callback, and commits/rolls back.
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// WithTx opens a DB transaction and passes it to fn.
// If fn returns an error, the transaction is rolled back; otherwise it is committed.
func (m *TxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := m.pool.BeginTx(ctx, txOpt)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err // rollback in defer
	}
	return tx.Commit(ctx)
}

// getExecutor prefers the transaction when one is in flight.
func getExecutor(pool *pgxpool.Pool, tx pgx.Tx) executor {
	if tx != nil {
		return tx
	}
	return pool
}

func execSQL(ctx context.Context, pool *pgxpool.Pool, tx pgx.Tx, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return getExecutor(pool, tx).Exec(ctx, sql, args...)
}

func pickRows(ctx context.Context, pool *pgxpool.Pool, tx pgx.Tx, sql string, args ...interface{}) (pgx.Rows, error) {
	return getExecutor(pool, tx).Query(ctx, sql, args...)
}
