package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    ErrorCode
		operational bool
	}{
		{"debounce", ErrDebounceRequest, DebounceRequest, true},
		{"invalid sender", ErrInvalidSender, InvalidSender, true},
		{"invalid receiver", ErrInvalidReceiver, InvalidReceiver, true},
		{"insufficient funds", ErrInsufficientFunds, InsufficientFunds, true},
		{"validation", ErrValidation.WithDetails("amount must be positive"), ValidationError, true},
		{"wrapped operational", fmt.Errorf("step 3: %w", ErrInsufficientFunds), InsufficientFunds, true},
		{"plain error", stderrors.New("connection reset by peer"), InternalError, false},
		{"internal wrapping operational", Internal(ErrInvalidSender, "rollback failed"), InternalError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.operational, got.Operational())
			assert.Nil(t, got.Err, "classified errors never carry a cause")
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassify_InternalHidesDetails(t *testing.T) {
	cause := stderrors.New(`pq: password authentication failed for user "bank"`)

	got := Classify(Internal(cause, "failed to acquire connection"))

	assert.Equal(t, ErrInternal, got)
	assert.NotContains(t, got.Message, "password")
	assert.Empty(t, got.Details)
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	err := ErrInvalidReceiver.WithDetails("account 7")

	assert.ErrorIs(t, err, ErrInvalidReceiver)
	assert.NotErrorIs(t, err, ErrInvalidSender)
}

func TestAppError_WithDetailsDoesNotMutate(t *testing.T) {
	_ = ErrValidation.WithDetails("x")
	assert.Empty(t, ErrValidation.Details)
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Internal(cause, "failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}

func TestAppError_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, ErrDebounceRequest.HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, ErrInsufficientFunds.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, ErrInvalidReceiver.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, ErrValidation.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, ErrAccountNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, ErrDuplicateAccount.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, ErrInternal.HTTPStatus())
}
