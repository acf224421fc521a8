package repository

import (
	"context"
	"database/sql"
)

// SQLExecutor represents sql.DB, sql.Conn and sql.Tx
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Tx is an open database transaction.
type Tx interface {
	SQLExecutor
	Commit() error
	Rollback() error
}

// Beginner starts read-committed transactions.
type Beginner interface {
	Begin(ctx context.Context) (Tx, error)
}

// Conn is a single connection borrowed from a Pool. Close returns it.
type Conn interface {
	SQLExecutor
	Beginner
	Close() error
}

var (
	_ SQLExecutor = (*sql.DB)(nil)
	_ Tx          = (*sql.Tx)(nil)
	_ Conn        = (*pooledConn)(nil)
)

type pooledConn struct {
	*sql.Conn
}

func (c *pooledConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := c.Conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	return tx, nil
}
