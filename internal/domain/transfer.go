package domain

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MaxFractionDigits matches the scale of the balance column.
	MaxFractionDigits = 2
)

// MaxAmount is the first value NUMERIC(12,2) cannot hold.
var MaxAmount = decimal.New(1, 10)

type TransferRequest struct {
	From   AccountID
	To     AccountID
	Amount Money
}

// Key identifies a request for debouncing. Requests sharing all three fields
// share a key. Amount is normalised so 10 and 10.00 collide.
func (r TransferRequest) Key() string {
	return fmt.Sprintf("%d!%d!%s", r.From, r.To, r.Amount.String())
}

// TransferRecord is the row written to the transactions table.
type TransferRecord struct {
	Reference int64
	Amount    Money
	Account   AccountID
}

type SenderSnapshot struct {
	ID      AccountID
	Balance Money
}

type ReceiverSnapshot struct {
	ID AccountID
}

// Receipt describes a committed transfer.
type Receipt struct {
	Reference   int64
	From        SenderSnapshot
	To          ReceiverSnapshot
	Transferred Money
}

// Failure is a classified error. Details are never set for internal failures.
type Failure struct {
	Code        string
	Message     string
	Details     string
	Operational bool
}

// TransferOutcome holds exactly one of Receipt or Failure.
type TransferOutcome struct {
	Receipt *Receipt
	Failure *Failure
}

func (o TransferOutcome) Succeeded() bool {
	return o.Receipt != nil
}

type TransferRepository interface {
	RecordTransfer(ctx context.Context, record *TransferRecord) error
}
