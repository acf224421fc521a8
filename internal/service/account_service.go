package service

import (
	"context"
	"log/slog"
	"strconv"

	"funds-transfer/internal/domain"
	"funds-transfer/internal/errors"
	"funds-transfer/internal/repository"
)

type AccountService struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewAccountService(store *repository.Store, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:  store,
		logger: logger,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, accountID int64, initialBalance domain.Money) (*domain.Account, error) {
	s.logger.Info("Creating account", "account_id", accountID, "initial_balance", initialBalance)

	if accountID <= 0 {
		return nil, errors.ErrValidation.WithDetails("account ID must be positive")
	}

	if initialBalance.IsNegative() {
		return nil, errors.ErrValidation.WithDetails("initial balance must not be negative")
	}

	if initialBalance.GreaterThanOrEqual(domain.MaxAmount) {
		return nil, errors.ErrValidation.WithDetails("initial balance exceeds maximum limit")
	}

	if !initialBalance.Equal(initialBalance.Truncate(domain.MaxFractionDigits)) {
		return nil, errors.ErrValidation.WithDetails("initial balance has more than two decimal places")
	}

	account := &domain.Account{
		ID:      domain.AccountID(accountID),
		Balance: initialBalance,
	}

	if err := s.store.Balances().CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	id, err := strconv.ParseInt(accountID, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.ErrValidation.WithDetails("account ID must be a positive integer")
	}

	balance, err := s.store.Balances().GetBalance(ctx, domain.AccountID(id))
	if err != nil {
		return nil, err
	}

	return &domain.Account{ID: domain.AccountID(id), Balance: balance}, nil
}
