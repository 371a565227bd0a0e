package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("LED_004", "Insufficient funds", http.StatusUnprocessableEntity),
			expected: "[LED_004] Insufficient funds",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("LED_004", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("clear entry: %w", ErrServiceUnavailable(fmt.Errorf("dial tcp: timeout")))

	assert.True(t, errors.Is(err, ErrServiceUnavailable(nil)))
	assert.False(t, errors.Is(err, ErrCurrencyNotSupported()))
	assert.Equal(t, "PRV_001", CodeOf(err))
	assert.Equal(t, "", CodeOf(fmt.Errorf("plain")))
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"DuplicateReference", ErrDuplicateReference("ref1"), "LED_001", 409},
		{"NotFound", ErrNotFound("Wallet"), "LED_002", 404},
		{"AlreadyConclusive", ErrAlreadyConclusive(), "LED_003", 409},
		{"InsufficientFunds", ErrInsufficientFunds(), "LED_004", 422},
		{"InvalidAmount", ErrInvalidAmount(), "LED_005", 400},
		{"CurrencyMismatch", ErrCurrencyMismatch(), "LED_006", 400},
		{"BudgetExceeded", ErrBudgetExceeded(), "LED_007", 422},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestProviderErrors(t *testing.T) {
	diag := fmt.Errorf("POST /transfers: 502 bad gateway")
	unavailable := ErrServiceUnavailable(diag)
	assert.Equal(t, "PRV_001", unavailable.Code)
	assert.Equal(t, "Service Unavailable", unavailable.Message)
	assert.Equal(t, 503, unavailable.HTTPStatus)
	assert.True(t, errors.Is(unavailable, diag))

	currency := ErrCurrencyNotSupported()
	assert.Equal(t, "PRV_002", currency.Code)
	assert.Equal(t, "Currency not supported", currency.Message)
}

func TestSecurityAndAuthErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"MissingSignature", ErrMissingSignature(), "SEC_001", 401},
		{"InvalidSignature", ErrInvalidSignature(), "SEC_002", 401},
		{"MissingToken", ErrMissingToken(), "AUTH_001", 401},
		{"InvalidToken", ErrInvalidToken(), "AUTH_002", 401},
		{"InsufficientScope", ErrInsufficientScope("ops:write"), "AUTH_003", 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	dbErr := ErrDatabaseError(inner)
	assert.Equal(t, "SYS_001", dbErr.Code)
	assert.Equal(t, 500, dbErr.HTTPStatus)
	assert.True(t, errors.Is(dbErr, inner))

	lockErr := ErrLockTimeout(inner)
	assert.Equal(t, "SYS_002", lockErr.Code)
	assert.Equal(t, 503, lockErr.HTTPStatus)

	encErr := ErrEncryptionFailure(inner)
	assert.Equal(t, "SYS_003", encErr.Code)

	queueErr := ErrQueueUnavailable(inner)
	assert.Equal(t, "SYS_004", queueErr.Code)
	assert.Equal(t, 503, queueErr.HTTPStatus)

	assert.Equal(t, "SYS_000", InternalError(inner).Code)
}

func TestRateLimitError(t *testing.T) {
	err := ErrRateLimitExceeded()
	assert.Equal(t, "RATE_001", err.Code)
	assert.Equal(t, 429, err.HTTPStatus)
}

func TestValidation(t *testing.T) {
	err := Validation("reference is required")
	assert.Equal(t, "VAL_001", err.Code)
	assert.Equal(t, "reference is required", err.Message)

	tooLarge := ErrPayloadTooLarge()
	assert.Equal(t, "VAL_002", tooLarge.Code)
	assert.Equal(t, 413, tooLarge.HTTPStatus)
}
