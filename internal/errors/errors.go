package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	DebounceRequest   ErrorCode = "Debounce_Request"
	InvalidSender     ErrorCode = "Invalid_Sender"
	InvalidReceiver   ErrorCode = "Invalid_Receiver"
	InsufficientFunds ErrorCode = "Insufficient_Funds"
	ValidationError   ErrorCode = "Validation_Error"
	AccountNotFound   ErrorCode = "Account_Not_Found"
	DuplicateAccount  ErrorCode = "Duplicate_Account"
	InternalError     ErrorCode = "Internal_Error"
)

// AppError is the only error type that crosses package boundaries. Every code
// except InternalError is operational: expected, and safe to show a caller.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code so wrapped copies of a sentinel compare equal to it.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) Operational() bool {
	return e.Code != InternalError
}

func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ValidationError, InvalidReceiver, InvalidSender:
		return http.StatusBadRequest
	case AccountNotFound:
		return http.StatusNotFound
	case DuplicateAccount:
		return http.StatusConflict
	case DebounceRequest:
		return http.StatusTooManyRequests
	case InsufficientFunds:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy so predefined errors are never mutated.
func (e *AppError) WithDetails(details string) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Internal wraps an infrastructure failure. The cause is kept for logging and
// never rendered to a caller.
func Internal(cause error, message string) *AppError {
	return &AppError{
		Code:    InternalError,
		Message: message,
		Err:     cause,
	}
}

// Predefined errors for common cases
var (
	ErrDebounceRequest   = NewAppError(DebounceRequest, "repeated transfer")
	ErrInvalidSender     = NewAppError(InvalidSender, "invalid sender account number")
	ErrInvalidReceiver   = NewAppError(InvalidReceiver, "invalid receiver account number")
	ErrInsufficientFunds = NewAppError(InsufficientFunds, "insufficient funds")
	ErrValidation        = NewAppError(ValidationError, "invalid transfer details")
	ErrAccountNotFound   = NewAppError(AccountNotFound, "account not found")
	ErrDuplicateAccount  = NewAppError(DuplicateAccount, "account already exists")
	ErrInternal          = NewAppError(InternalError, "internal error")
)

// Classify maps any error to the error a caller may see. Operational errors
// pass through with their code and message; anything else collapses to
// ErrInternal. A nil error classifies as nil.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Operational() {
		return &AppError{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details}
	}

	return ErrInternal
}
