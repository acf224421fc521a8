package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"funds-transfer/internal/domain"
	"funds-transfer/internal/errors"
)

type accountService interface {
	CreateAccount(ctx context.Context, accountID int64, initialBalance domain.Money) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
}

type AccountHandler struct {
	accountService accountService
}

func NewAccountHandler(accountService accountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

type CreateAccountRequest struct {
	AccountID      int64  `json:"account_id"`
	InitialBalance string `json:"initial_balance"`
}

type AccountResponse struct {
	AccountID int64  `json:"account_id"`
	Balance   string `json:"balance"`
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	initialBalance, err := decimal.NewFromString(req.InitialBalance)
	if err != nil {
		writeError(w, errors.ErrValidation.WithDetails("invalid initial_balance format"))
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), req.AccountID, initialBalance)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["account_id"]

	account, err := h.accountService.GetAccount(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func toAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: int64(account.ID),
		Balance:   account.Balance.StringFixed(domain.MaxFractionDigits),
	}
}
