package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// AccountID identifies a row in the balances table.
type AccountID int64

// Money is a NUMERIC(12,2) amount.
type Money = decimal.Decimal

type Account struct {
	ID      AccountID
	Balance Money
}

type BalanceRepository interface {
	CreateAccount(ctx context.Context, account *Account) error
	GetBalance(ctx context.Context, id AccountID) (Money, error)
	LockBalance(ctx context.Context, id AccountID) (Money, error)
	Debit(ctx context.Context, id AccountID, amount Money) (Money, error)
	Credit(ctx context.Context, id AccountID, amount Money) error
}
