package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("guard: %w", Wrap(ErrInvalidToken, "expired", errors.New("token is expired")))

	assert.True(t, errors.Is(wrapped, ErrInvalidToken))
	assert.False(t, errors.Is(wrapped, ErrRevokedToken))
}

func TestAppError_Status(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{ErrMissingCredentials, http.StatusForbidden},
		{ErrInvalidToken, http.StatusForbidden},
		{ErrRevokedToken, http.StatusForbidden},
		{WrongTokenType(true), http.StatusForbidden},
		{ErrMissingIdentity, http.StatusUnauthorized},
		{ErrMalformedIdentity, http.StatusUnauthorized},
		{ErrUserNotFound, http.StatusUnauthorized},
		{ErrUnverifiedAccount, http.StatusUnauthorized},
		{ErrInsufficientRole, http.StatusForbidden},
		{ErrInvalidCredentials, http.StatusBadRequest},
		{StoreUnavailable("find_user", nil), http.StatusServiceUnavailable},
		{NotFound("University"), http.StatusNotFound},
		{Validation("name: cannot be blank"), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status())
		})
	}
}

func TestFrom_FallsBackToInternal(t *testing.T) {
	err := From(errors.New("boom"))
	assert.Equal(t, ErrCodeInternal, err.Code)
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestWrongTokenType_Messages(t *testing.T) {
	assert.Contains(t, WrongTokenType(true).Message, "refresh token")
	assert.Contains(t, WrongTokenType(false).Message, "access token")
	assert.True(t, errors.Is(WrongTokenType(false), ErrWrongTokenType))
}
