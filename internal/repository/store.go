package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"

	"funds-transfer/internal/domain"
	"funds-transfer/internal/errors"
)

// Store provides a unified interface for all repository operations with transaction support
type Store struct {
	executor SQLExecutor
	logger   *slog.Logger
}

// NewStore creates a Store over any executor. Only a Conn can start transactions.
func NewStore(executor SQLExecutor, logger *slog.Logger) *Store {
	return &Store{
		executor: executor,
		logger:   logger,
	}
}

// Balances returns a BalanceRepository using the current executor
func (s *Store) Balances() domain.BalanceRepository {
	return NewBalanceRepository(s.executor, s.logger)
}

// Transfers returns a TransferRepository using the current executor
func (s *Store) Transfers() domain.TransferRepository {
	return NewTransferRepository(s.executor, s.logger)
}

// WithTransaction runs fn inside one read-committed transaction. Any error
// from fn rolls back and is returned unchanged. A rollback that fails turns
// the result into an internal error carrying both causes.
func (s *Store) WithTransaction(ctx context.Context, fn func(*Store) error) (err error) {
	beginner, ok := s.executor.(Beginner)
	if !ok {
		return errors.Internal(nil, "store cannot begin a transaction")
	}

	tx, err := beginner.Begin(ctx)
	if err != nil {
		s.logger.Error("Failed to begin transaction", "error", err)
		return errors.Internal(err, "failed to begin transaction")
	}
	s.logger.Debug("Transaction started")

	txStore := &Store{
		executor: tx,
		logger:   s.logger,
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !stderrors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Error("Rollback after panic failed", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !stderrors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Error("Rollback failed", "error", rbErr, "cause", err)
			return errors.Internal(stderrors.Join(err, rbErr), "failed to roll back transaction")
		}
		s.logger.Debug("Transaction rolled back", "cause", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("Failed to commit transaction", "error", err)
		return errors.Internal(err, "failed to commit transaction")
	}
	s.logger.Debug("Transaction committed")

	return nil
}
