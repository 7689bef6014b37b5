package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/domain/entity"
	"github.com/unifind/unifind/infrastructure/service/logger"
)

func claimsFor(id string) *outbound.TokenClaims {
	return &outbound.TokenClaims{User: outbound.SubjectPayload{outbound.SubjectUserIDKey: id}, TokenID: "jti"}
}

func TestSessionResolver_CurrentUser(t *testing.T) {
	id := uuid.MustParse(testUserID)
	verified := entity.NewUser(testUserID, "ada", "ada@example.com", "Ada", "Lovelace", "hash", entity.RoleUser, true)
	unverified := entity.NewUser(testUserID, "ada", "ada@example.com", "Ada", "Lovelace", "hash", entity.RoleUser, false)

	tests := []struct {
		name    string
		claims  *outbound.TokenClaims
		setup   func(*mockUserRepository)
		wantErr error
	}{
		{
			name:   "verified user",
			claims: claimsFor(testUserID),
			setup: func(r *mockUserRepository) {
				r.On("FindByID", mock.Anything, id).Return(verified, nil)
			},
		},
		{
			name:   "falls back to subject",
			claims: &outbound.TokenClaims{Subject: testUserID},
			setup: func(r *mockUserRepository) {
				r.On("FindByID", mock.Anything, id).Return(verified, nil)
			},
		},
		{name: "nil claims", claims: nil, wantErr: apperror.ErrMissingIdentity},
		{name: "no identity", claims: &outbound.TokenClaims{User: outbound.SubjectPayload{"email": "x"}}, wantErr: apperror.ErrMissingIdentity},
		{name: "non-string identity", claims: &outbound.TokenClaims{User: outbound.SubjectPayload{outbound.SubjectUserIDKey: 42}}, wantErr: apperror.ErrMissingIdentity},
		{name: "malformed identity", claims: claimsFor("not-a-uuid"), wantErr: apperror.ErrMalformedIdentity},
		{
			name:   "unknown user",
			claims: claimsFor(testUserID),
			setup: func(r *mockUserRepository) {
				r.On("FindByID", mock.Anything, id).Return(nil, outbound.ErrUserNotFound)
			},
			wantErr: apperror.ErrUserNotFound,
		},
		{
			name:   "unverified user",
			claims: claimsFor(testUserID),
			setup: func(r *mockUserRepository) {
				r.On("FindByID", mock.Anything, id).Return(unverified, nil)
			},
			wantErr: apperror.ErrUnverifiedAccount,
		},
		{
			name:   "store unavailable",
			claims: claimsFor(testUserID),
			setup: func(r *mockUserRepository) {
				r.On("FindByID", mock.Anything, id).Return(nil, apperror.StoreUnavailable("users.find_by_id", nil))
			},
			wantErr: apperror.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockUserRepository)
			if tt.setup != nil {
				tt.setup(repo)
			}
			resolver := NewSessionResolver(repo, logger.NewNop())

			user, err := resolver.CurrentUser(context.Background(), tt.claims)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, resolver.CurrentUserOptional(context.Background(), tt.claims))
			} else {
				require.NoError(t, err)
				assert.Equal(t, testUserID, user.UID)
				assert.NotNil(t, resolver.CurrentUserOptional(context.Background(), tt.claims))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestSessionResolver_StatusCodes(t *testing.T) {
	assert.Equal(t, 401, apperror.HTTPStatus(apperror.ErrMissingIdentity))
	assert.Equal(t, 401, apperror.HTTPStatus(apperror.ErrMalformedIdentity))
	assert.Equal(t, 401, apperror.HTTPStatus(apperror.ErrUserNotFound))
	assert.Equal(t, 401, apperror.HTTPStatus(apperror.ErrUnverifiedAccount))
	assert.Equal(t, 403, apperror.HTTPStatus(apperror.ErrInsufficientRole))
}

func TestSessionResolver_RequireAdmin(t *testing.T) {
	resolver := NewSessionResolver(new(mockUserRepository), logger.NewNop())

	admin := entity.NewUser(testUserID, "root", "root@example.com", "R", "T", "h", entity.RoleAdmin, true)
	got, err := resolver.RequireAdmin(admin)
	require.NoError(t, err)
	assert.Same(t, admin, got)

	plain := entity.NewUser(testUserID, "ada", "ada@example.com", "A", "L", "h", entity.RoleUser, true)
	_, err = resolver.RequireAdmin(plain)
	assert.ErrorIs(t, err, apperror.ErrInsufficientRole)

	_, err = resolver.RequireAdmin(nil)
	assert.ErrorIs(t, err, apperror.ErrInsufficientRole)
}

type panickingUsers struct{ mockUserRepository }

func (*panickingUsers) FindByID(context.Context, uuid.UUID) (*entity.User, error) {
	panic("driver bug")
}

func TestSessionResolver_OptionalRecoversPanics(t *testing.T) {
	resolver := NewSessionResolver(&panickingUsers{}, logger.NewNop())

	assert.NotPanics(t, func() {
		assert.Nil(t, resolver.CurrentUserOptional(context.Background(), claimsFor(testUserID)))
	})
}
