package service

import (
	"context"
	stderrors "errors"
	"log/slog"

	"funds-transfer/internal/domain"
	"funds-transfer/internal/errors"
	"funds-transfer/internal/repository"
)

// TransferTransaction moves funds inside one database transaction on a
// borrowed connection. The sender row is locked before it is inspected, so
// transfers sharing an account serialize on that lock.
type TransferTransaction struct {
	logger *slog.Logger
}

func NewTransferTransaction(logger *slog.Logger) *TransferTransaction {
	return &TransferTransaction{logger: logger}
}

// Run returns a receipt, or an error after everything it did was rolled back.
func (t *TransferTransaction) Run(ctx context.Context, conn repository.Conn, req domain.TransferRequest) (*domain.Receipt, error) {
	if req.From == req.To {
		return nil, errors.ErrInvalidReceiver
	}

	logger := t.logger.With("from", req.From, "to", req.To, "amount", req.Amount)
	receipt := &domain.Receipt{
		From:        domain.SenderSnapshot{ID: req.From},
		To:          domain.ReceiverSnapshot{ID: req.To},
		Transferred: req.Amount,
	}

	err := repository.NewStore(conn, logger).WithTransaction(ctx, func(tx *repository.Store) error {
		balances := tx.Balances()

		balance, err := balances.LockBalance(ctx, req.From)
		if err != nil {
			if stderrors.Is(err, errors.ErrAccountNotFound) {
				return errors.ErrInvalidSender
			}
			return err
		}
		logger.Debug("Sender locked", "balance", balance)

		if balance.LessThan(req.Amount) {
			return errors.ErrInsufficientFunds
		}

		after, err := balances.Debit(ctx, req.From, req.Amount)
		if err != nil {
			return err
		}
		receipt.From.Balance = after
		logger.Debug("Sender debited", "balance", after)

		if err := balances.Credit(ctx, req.To, req.Amount); err != nil {
			if stderrors.Is(err, errors.ErrAccountNotFound) {
				return errors.ErrInvalidReceiver
			}
			return err
		}
		logger.Debug("Receiver credited")

		record := &domain.TransferRecord{Amount: req.Amount, Account: req.From}
		if err := tx.Transfers().RecordTransfer(ctx, record); err != nil {
			return err
		}
		receipt.Reference = record.Reference
		logger.Debug("Transfer recorded", "reference", record.Reference)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}
