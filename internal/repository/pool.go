package repository

import (
	"context"
	"database/sql"
	"log/slog"

	_ "github.com/lib/pq"

	"funds-transfer/internal/config"
	"funds-transfer/internal/errors"
)

// Pool lends out dedicated connections to a postgres database.
type Pool struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects with lib/pq, applies the pool limits from cfg and pings.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Pool, error) {
	db, err := sql.Open("postgres", cfg.GetDBConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Successfully connected to database",
		"max_open_conns", cfg.DBMaxOpenConns,
		"max_idle_conns", cfg.DBMaxIdleConns)

	return NewPool(db, logger), nil
}

func NewPool(db *sql.DB, logger *slog.Logger) *Pool {
	return &Pool{
		db:     db,
		logger: logger,
	}
}

// Acquire blocks until a connection is free or ctx is done.
func (p *Pool) Acquire(ctx context.Context) (Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		p.logger.Error("Failed to acquire connection", "error", err)
		return nil, errors.Internal(err, "failed to acquire connection")
	}
	return &pooledConn{Conn: conn}, nil
}

// DB exposes the underlying handle for statements that need no dedicated connection.
func (p *Pool) DB() *sql.DB {
	return p.db
}

func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Pool) Close() error {
	return p.db.Close()
}
