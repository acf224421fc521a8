package repository

import (
	"context"
	"log/slog"

	"funds-transfer/internal/domain"
	"funds-transfer/internal/errors"
)

type transferRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransferRepository(db SQLExecutor, logger *slog.Logger) domain.TransferRepository {
	return &transferRepository{
		db:     db,
		logger: logger,
	}
}

// RecordTransfer inserts the record and sets its generated reference.
func (r *transferRepository) RecordTransfer(ctx context.Context, record *domain.TransferRecord) error {
	query := `INSERT INTO transactions (amount, account) VALUES ($1, $2) RETURNING reference`

	err := r.db.QueryRowContext(ctx, query, record.Amount.String(), int64(record.Account)).Scan(&record.Reference)
	if err != nil {
		r.logger.Error("Failed to record transfer",
			"account", record.Account,
			"amount", record.Amount,
			"error", err)
		return errors.Internal(err, "failed to record transfer")
	}

	return nil
}
