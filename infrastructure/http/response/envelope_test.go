package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifind/unifind/domain/apperror"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "created", map[string]string{"uid": "1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	env := decode(t, rec)
	assert.True(t, env.Status)
	assert.Equal(t, "created", env.Message)
	assert.Nil(t, env.Error)
}

func TestAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   apperror.ErrorCode
		wantDetail string
	}{
		{"revoked", apperror.ErrRevokedToken, http.StatusForbidden, apperror.ErrCodeRevokedToken, ""},
		{"unverified", apperror.ErrUnverifiedAccount, http.StatusUnauthorized, apperror.ErrCodeUnverifiedAccount, ""},
		{"store", apperror.StoreUnavailable("users.find_by_id", errors.New("dial")), http.StatusServiceUnavailable, apperror.ErrCodeStoreUnavailable, ""},
		{"validation keeps details", apperror.Validation("email: must be a valid email address."), http.StatusUnprocessableEntity, apperror.ErrCodeValidation, "email: must be a valid email address."},
		{"plain error is internal", errors.New("boom"), http.StatusInternalServerError, apperror.ErrCodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			AppError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Equal(t, tt.wantDetail, env.Error.Details)
		})
	}
}
