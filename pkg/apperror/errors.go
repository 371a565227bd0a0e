package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses and job outcomes.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError by code so callers can use errors.Is with a
// freshly constructed error.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// ---- Ledger (LED) ----

func ErrDuplicateReference(reference string) *AppError {
	return New("LED_001", fmt.Sprintf("Wallet entry with reference %q already exists", reference), http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("LED_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrAlreadyConclusive() *AppError {
	return New("LED_003", "Wallet entry is already conclusive", http.StatusConflict)
}

func ErrInsufficientFunds() *AppError {
	return New("LED_004", "Insufficient balance in wallet", http.StatusUnprocessableEntity)
}

func ErrInvalidAmount() *AppError {
	return New("LED_005", "Invalid amount", http.StatusBadRequest)
}

func ErrCurrencyMismatch() *AppError {
	return New("LED_006", "Currency does not match wallet currency", http.StatusBadRequest)
}

func ErrBudgetExceeded() *AppError {
	return New("LED_007", "Budget has insufficient headroom", http.StatusUnprocessableEntity)
}

// ---- Providers (PRV) ----

// ErrServiceUnavailable is the single client-facing error for every provider
// transport failure. The raw diagnostic stays in Err for logging only.
func ErrServiceUnavailable(diag error) *AppError {
	return Wrap("PRV_001", "Service Unavailable", http.StatusServiceUnavailable, diag)
}

func ErrCurrencyNotSupported() *AppError {
	return New("PRV_002", "Currency not supported", http.StatusBadRequest)
}

// ---- Webhook authenticity (SEC) ----

func ErrMissingSignature() *AppError {
	return New("SEC_001", "Missing webhook signature", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid webhook signature", http.StatusUnauthorized)
}

// ---- Ops API authentication (AUTH) ----

func ErrMissingToken() *AppError {
	return New("AUTH_001", "Missing bearer token", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrInsufficientScope(scope string) *AppError {
	return New("AUTH_003", "Token lacks scope "+scope, http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- Validation (VAL) ----

// Validation returns a VAL_001 error carrying a client-safe message.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrPayloadTooLarge() *AppError {
	return New("VAL_002", "Request body too large", http.StatusRequestEntityTooLarge)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap("SYS_002", "Lock acquisition timeout", http.StatusServiceUnavailable, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

func ErrQueueUnavailable(err error) *AppError {
	return Wrap("SYS_004", "Job queue unavailable", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_000 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_000", "Internal server error", http.StatusInternalServerError, err)
}
