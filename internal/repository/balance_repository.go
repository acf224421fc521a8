package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"funds-transfer/internal/domain"
	"funds-transfer/internal/errors"
)

const (
	pqUniqueViolation = "23505"
	pqCheckViolation  = "23514"
)

type balanceRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewBalanceRepository(db SQLExecutor, logger *slog.Logger) domain.BalanceRepository {
	return &balanceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *balanceRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	query := `INSERT INTO balances (account_nr, balance) VALUES ($1, $2)`

	_, err := r.db.ExecContext(ctx, query, int64(account.ID), account.Balance.String())
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) {
			switch pqErr.Code {
			case pqUniqueViolation:
				r.logger.Warn("Duplicate account creation attempt", "account_id", account.ID)
				return errors.ErrDuplicateAccount
			case pqCheckViolation:
				return errors.ErrValidation.WithDetails("initial balance must not be negative")
			}
		}
		r.logger.Error("Failed to create account", "account_id", account.ID, "error", err)
		return errors.Internal(err, "failed to create account")
	}

	r.logger.Info("Account created successfully", "account_id", account.ID)
	return nil
}

func (r *balanceRepository) GetBalance(ctx context.Context, id domain.AccountID) (domain.Money, error) {
	query := `SELECT balance FROM balances WHERE account_nr = $1`

	return r.scanBalance(ctx, query, id)
}

// LockBalance reads the balance and holds a row lock until the enclosing
// transaction ends.
func (r *balanceRepository) LockBalance(ctx context.Context, id domain.AccountID) (domain.Money, error) {
	query := `SELECT balance FROM balances WHERE account_nr = $1 FOR UPDATE`

	return r.scanBalance(ctx, query, id)
}

// Debit subtracts amount only while the balance covers it and returns the new
// balance. No matching row means the funds are not there.
func (r *balanceRepository) Debit(ctx context.Context, id domain.AccountID, amount domain.Money) (domain.Money, error) {
	query := `
		UPDATE balances SET balance = balance - $1
		WHERE account_nr = $2 AND balance >= $1
		RETURNING balance
	`

	balance, err := r.scanBalance(ctx, query, id, amount.String())
	if stderrors.Is(err, errors.ErrAccountNotFound) {
		return decimal.Zero, errors.ErrInsufficientFunds
	}
	return balance, err
}

func (r *balanceRepository) Credit(ctx context.Context, id domain.AccountID, amount domain.Money) error {
	query := `
		UPDATE balances SET balance = balance + $1
		WHERE account_nr = $2
		RETURNING account_nr
	`

	var accountNr int64
	err := r.db.QueryRowContext(ctx, query, amount.String(), int64(id)).Scan(&accountNr)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Account not found", "account_id", id)
			return errors.ErrAccountNotFound
		}
		r.logger.Error("Failed to credit account", "account_id", id, "error", err)
		return errors.Internal(err, "failed to credit account")
	}

	return nil
}

// scanBalance runs a query returning one balance column. When extra is set it
// is bound before the account id.
func (r *balanceRepository) scanBalance(ctx context.Context, query string, id domain.AccountID, extra ...interface{}) (domain.Money, error) {
	var balanceStr string

	args := append(extra, int64(id))
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&balanceStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return decimal.Zero, errors.ErrAccountNotFound
		}
		r.logger.Error("Failed to read balance", "account_id", id, "error", err)
		return decimal.Zero, errors.Internal(err, "failed to read balance")
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		r.logger.Error("Failed to parse balance", "account_id", id, "balance_str", balanceStr, "error", err)
		return decimal.Zero, errors.Internal(err, "failed to parse balance")
	}

	return balance, nil
}
