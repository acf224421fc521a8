package service

import (
	"context"
	"fmt"
	"log/slog"

	"funds-transfer/internal/domain"
	"funds-transfer/internal/errors"
	"funds-transfer/internal/repository"
)

// Admitter is the debounce check run before any connection is taken.
type Admitter interface {
	Admit(ctx context.Context, key string) error
}

type ConnPool interface {
	Acquire(ctx context.Context) (repository.Conn, error)
}

type transferRunner interface {
	Run(ctx context.Context, conn repository.Conn, req domain.TransferRequest) (*domain.Receipt, error)
}

type TransferService struct {
	guard  Admitter
	pool   ConnPool
	runner transferRunner
	logger *slog.Logger
}

func NewTransferService(guard Admitter, pool ConnPool, logger *slog.Logger) *TransferService {
	return &TransferService{
		guard:  guard,
		pool:   pool,
		runner: NewTransferTransaction(logger),
		logger: logger,
	}
}

// Transfer never fails: every error, including a panic in the transaction,
// comes back as a classified Failure.
func (s *TransferService) Transfer(ctx context.Context, req domain.TransferRequest) domain.TransferOutcome {
	receipt, err := s.transfer(ctx, req)
	if err == nil {
		transferOutcomesTotal.WithLabelValues(outcomeSuccess).Inc()
		s.logger.Info("Transfer completed",
			"reference", receipt.Reference,
			"from", req.From,
			"to", req.To,
			"amount", req.Amount)
		return domain.TransferOutcome{Receipt: receipt}
	}

	classified := errors.Classify(err)
	transferOutcomesTotal.WithLabelValues(string(classified.Code)).Inc()

	if classified.Operational() {
		s.logger.Info("Transfer rejected",
			"code", classified.Code,
			"from", req.From,
			"to", req.To,
			"amount", req.Amount)
	} else {
		s.logger.Error("Transfer failed",
			"error", err,
			"from", req.From,
			"to", req.To,
			"amount", req.Amount)
	}

	return domain.TransferOutcome{Failure: &domain.Failure{
		Code:        string(classified.Code),
		Message:     classified.Message,
		Details:     classified.Details,
		Operational: classified.Operational(),
	}}
}

func (s *TransferService) transfer(ctx context.Context, req domain.TransferRequest) (receipt *domain.Receipt, err error) {
	if err := validateTransfer(req); err != nil {
		return nil, err
	}

	if err := s.guard.Admit(ctx, req.Key()); err != nil {
		return nil, err
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if p := recover(); p != nil {
			receipt, err = nil, errors.Internal(fmt.Errorf("panic: %v", p), "transfer aborted")
		}
		if closeErr := conn.Close(); closeErr != nil {
			s.logger.Warn("Failed to release connection", "error", closeErr)
		}
	}()

	return s.runner.Run(ctx, conn, req)
}

func validateTransfer(req domain.TransferRequest) error {
	if req.From <= 0 || req.To <= 0 {
		return errors.ErrValidation.WithDetails("account numbers must be positive integers")
	}

	if !req.Amount.IsPositive() {
		return errors.ErrValidation.WithDetails("amount must be greater than zero")
	}

	if req.Amount.GreaterThanOrEqual(domain.MaxAmount) {
		return errors.ErrValidation.WithDetails("amount exceeds maximum")
	}

	if !req.Amount.Equal(req.Amount.Truncate(domain.MaxFractionDigits)) {
		return errors.ErrValidation.WithDetails("amount has more than two decimal places")
	}

	return nil
}
