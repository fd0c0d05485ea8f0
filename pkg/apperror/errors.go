package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
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

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// ---- Postback (PB) ----

func ErrMissingParam(name string) *AppError {
	return New("PB_001", fmt.Sprintf("missing parameter: %s", name), http.StatusBadRequest)
}

func ErrInvalidParam(name string) *AppError {
	return New("PB_002", fmt.Sprintf("invalid parameter: %s", name), http.StatusBadRequest)
}

func ErrInvalidSignature() *AppError {
	return New("PB_003", "Invalid signature", http.StatusForbidden)
}

func ErrInvalidStatus() *AppError {
	return New("PB_004", "Unsupported postback status", http.StatusBadRequest)
}

func ErrUnknownProvider(name string) *AppError {
	return New("PB_005", fmt.Sprintf("unknown offerwall provider: %s", name), http.StatusNotFound)
}

func ErrSourceNotAllowed() *AppError {
	return New("PB_006", "Postback source not allowed", http.StatusForbidden)
}

// ErrDuplicatePostback is returned by storage when (provider, tx id, kind) was already recorded.
func ErrDuplicatePostback() *AppError {
	return New("PB_007", "Postback already processed", http.StatusOK)
}

// ---- Points & Withdrawals (PTS) ----

func ErrInsufficientPoints() *AppError {
	return New("PTS_001", "Insufficient points balance", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("PTS_002", "Invalid amount", http.StatusBadRequest)
}

func ErrAmountBelowMinimum(min int64) *AppError {
	return New("PTS_003", fmt.Sprintf("Amount below minimum withdrawal of %d points", min), http.StatusBadRequest)
}

func ErrUnsupportedCoin(coin string) *AppError {
	return New("PTS_004", fmt.Sprintf("Unsupported coin: %s", coin), http.StatusBadRequest)
}

func ErrInvalidAddress() *AppError {
	return New("PTS_005", "Invalid payout address", http.StatusBadRequest)
}

func ErrWithdrawalNotPending() *AppError {
	return New("PTS_006", "Withdrawal request already reviewed", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("PTS_007", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_002", "Email already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrAdminRequired() *AppError {
	return New("AUTH_004", "Admin privileges required", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrMissingConfig(key string) *AppError {
	return New("SYS_002", fmt.Sprintf("Server misconfigured: %s", key), http.StatusInternalServerError)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a PTS_002-style validation error.
func Validation(message string) *AppError {
	return New("PTS_002", message, http.StatusBadRequest)
}
