package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode string

const (
	// Authentication errors (1xxx)
	ErrCodeMissingCredentials ErrorCode = "AUTH_1001"
	ErrCodeInvalidToken       ErrorCode = "AUTH_1002"
	ErrCodeRevokedToken       ErrorCode = "AUTH_1003"
	ErrCodeWrongTokenType     ErrorCode = "AUTH_1004"
	ErrCodeMissingIdentity    ErrorCode = "AUTH_1005"
	ErrCodeMalformedIdentity  ErrorCode = "AUTH_1006"
	ErrCodeUserNotFound       ErrorCode = "AUTH_1007"
	ErrCodeUnverifiedAccount  ErrorCode = "AUTH_1008"
	ErrCodeInsufficientRole   ErrorCode = "AUTH_1009"
	ErrCodeInvalidCredentials ErrorCode = "AUTH_1010"

	// Validation errors (2xxx)
	ErrCodeValidation ErrorCode = "VALID_2001"
	ErrCodeBadRequest ErrorCode = "VALID_2002"

	// Rate limiting errors (3xxx)
	ErrCodeRateLimitExceeded ErrorCode = "RATE_3001"

	// Resource errors (4xxx)
	ErrCodeNotFound ErrorCode = "RES_4001"
	ErrCodeConflict ErrorCode = "RES_4002"

	// Store errors (5xxx)
	ErrCodeStoreUnavailable ErrorCode = "DB_5001"

	// Server errors (6xxx)
	ErrCodeInternal ErrorCode = "SERVER_6001"
)

var statusByCode = map[ErrorCode]int{
	ErrCodeMissingCredentials: http.StatusForbidden,
	ErrCodeInvalidToken:       http.StatusForbidden,
	ErrCodeRevokedToken:       http.StatusForbidden,
	ErrCodeWrongTokenType:     http.StatusForbidden,
	ErrCodeMissingIdentity:    http.StatusUnauthorized,
	ErrCodeMalformedIdentity:  http.StatusUnauthorized,
	ErrCodeUserNotFound:       http.StatusUnauthorized,
	ErrCodeUnverifiedAccount:  http.StatusUnauthorized,
	ErrCodeInsufficientRole:   http.StatusForbidden,
	ErrCodeInvalidCredentials: http.StatusBadRequest,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeRateLimitExceeded:  http.StatusTooManyRequests,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeStoreUnavailable:   http.StatusServiceUnavailable,
	ErrCodeInternal:           http.StatusInternalServerError,
}

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError carrying the same code, so wrapped instances
// compare equal to the sentinels below.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Status returns the HTTP status the code is rendered with.
func (e *AppError) Status() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func NewAppError(code ErrorCode, message string, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

var (
	ErrMissingCredentials = NewAppError(ErrCodeMissingCredentials, "Not authenticated", "", nil)
	ErrInvalidToken       = NewAppError(ErrCodeInvalidToken, "Invalid or expired token", "", nil)
	ErrRevokedToken       = NewAppError(ErrCodeRevokedToken, "Token has been revoked", "", nil)
	ErrWrongTokenType     = NewAppError(ErrCodeWrongTokenType, "Wrong token type", "", nil)
	ErrMissingIdentity    = NewAppError(ErrCodeMissingIdentity, "Could not validate credentials - no user ID in token", "", nil)
	ErrMalformedIdentity  = NewAppError(ErrCodeMalformedIdentity, "Could not validate credentials - invalid user ID", "", nil)
	ErrUserNotFound       = NewAppError(ErrCodeUserNotFound, "User not found", "", nil)
	ErrUnverifiedAccount  = NewAppError(ErrCodeUnverifiedAccount, "User account is not verified", "", nil)
	ErrInsufficientRole   = NewAppError(ErrCodeInsufficientRole, "Not enough permissions. Admin access required.", "", nil)
	ErrInvalidCredentials = NewAppError(ErrCodeInvalidCredentials, "Invalid email or password", "", nil)
	ErrStoreUnavailable   = NewAppError(ErrCodeStoreUnavailable, "Database connection error. Please try again.", "", nil)
	ErrRateLimitExceeded  = NewAppError(ErrCodeRateLimitExceeded, "Too many requests. Please try again later.", "", nil)
	ErrNotFound           = NewAppError(ErrCodeNotFound, "Not found", "", nil)
	ErrConflict           = NewAppError(ErrCodeConflict, "Conflict", "", nil)
	ErrValidation         = NewAppError(ErrCodeValidation, "Validation failed", "", nil)
	ErrBadRequest         = NewAppError(ErrCodeBadRequest, "Bad request", "", nil)
	ErrInternal           = NewAppError(ErrCodeInternal, "Internal server error", "", nil)
)

// Wrap derives a new error of the sentinel's kind with extra details and cause.
func Wrap(kind *AppError, details string, cause error) *AppError {
	return NewAppError(kind.Code, kind.Message, details, cause)
}

// WithMessage derives an error of the sentinel's kind with a caller-facing message.
func WithMessage(kind *AppError, message string) *AppError {
	return NewAppError(kind.Code, message, "", nil)
}

func WrongTokenType(wantRefresh bool) *AppError {
	if wantRefresh {
		return NewAppError(ErrCodeWrongTokenType, "Please provide a refresh token, not an access token", "", nil)
	}
	return NewAppError(ErrCodeWrongTokenType, "Please provide an access token, not a refresh token", "", nil)
}

func NotFound(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), "", nil)
}

func Validation(details string) *AppError {
	return NewAppError(ErrCodeValidation, "Validation failed", details, nil)
}

func StoreUnavailable(operation string, cause error) *AppError {
	return Wrap(ErrStoreUnavailable, fmt.Sprintf("Operation: %s", operation), cause)
}

func Internal(details string, cause error) *AppError {
	return NewAppError(ErrCodeInternal, "Internal server error", details, cause)
}

// From extracts an AppError from err, falling back to an internal error.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("", err)
}

// HTTPStatus maps any error onto the status it is rendered with.
func HTTPStatus(err error) int {
	return From(err).Status()
}
