package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"funds-transfer/internal/domain"
	"funds-transfer/internal/errors"
)

type transferer interface {
	Transfer(ctx context.Context, req domain.TransferRequest) domain.TransferOutcome
}

type TransferHandler struct {
	transferService transferer
}

func NewTransferHandler(transferService transferer) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// TransferRequest takes integer ids. The amount may be a JSON string or number.
type TransferRequest struct {
	From   int64           `json:"from"`
	To     int64           `json:"to"`
	Amount json.RawMessage `json:"amount"`
}

type SenderResponse struct {
	ID      int64  `json:"id"`
	Balance string `json:"balance"`
}

type ReceiverResponse struct {
	ID int64 `json:"id"`
}

type TransferResponse struct {
	ID          int64            `json:"id"`
	From        SenderResponse   `json:"from"`
	To          ReceiverResponse `json:"to"`
	Transferred string           `json:"transfered"`
}

func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	transferReq, err := parseTransferRequest(req)
	if err != nil {
		writeError(w, err)
		return
	}

	outcome := h.transferService.Transfer(r.Context(), transferReq)
	if !outcome.Succeeded() {
		failure := outcome.Failure
		writeError(w, errors.NewAppError(errors.ErrorCode(failure.Code), failure.Message).WithDetails(failure.Details))
		return
	}

	receipt := outcome.Receipt
	writeJSON(w, http.StatusOK, TransferResponse{
		ID: receipt.Reference,
		From: SenderResponse{
			ID:      int64(receipt.From.ID),
			Balance: receipt.From.Balance.StringFixed(domain.MaxFractionDigits),
		},
		To:          ReceiverResponse{ID: int64(receipt.To.ID)},
		Transferred: receipt.Transferred.StringFixed(domain.MaxFractionDigits),
	})
}

func parseTransferRequest(req TransferRequest) (domain.TransferRequest, error) {
	from, err := parseAccountID(req.From)
	if err != nil {
		return domain.TransferRequest{}, errors.ErrValidation.WithDetails("from must be an account number of at least 1")
	}

	to, err := parseAccountID(req.To)
	if err != nil {
		return domain.TransferRequest{}, errors.ErrValidation.WithDetails("to must be an account number of at least 1")
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return domain.TransferRequest{}, errors.ErrValidation.WithDetails("amount must be a decimal number")
	}

	return domain.TransferRequest{From: from, To: to, Amount: amount}, nil
}

// parseAccountID rejects ids below 1, which also covers a missing field.
func parseAccountID(id int64) (domain.AccountID, error) {
	if id < 1 {
		return 0, strconv.ErrRange
	}
	return domain.AccountID(id), nil
}

func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	}
	return decimal.NewFromString(string(raw))
}
