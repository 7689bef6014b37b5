package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/unifind/unifind/application/port/inbound"
	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/domain/entity"
	"github.com/unifind/unifind/infrastructure/service/logger"
)

type sessionResolver struct {
	users  outbound.UserRepository
	logger logger.Logger
}

func NewSessionResolver(users outbound.UserRepository, log logger.Logger) inbound.SessionResolver {
	return &sessionResolver{users: users, logger: log}
}

func (s *sessionResolver) CurrentUser(ctx context.Context, claims *outbound.TokenClaims) (*entity.User, error) {
	if claims == nil {
		return nil, apperror.ErrMissingIdentity
	}
	raw := claims.Identity()
	if raw == "" {
		return nil, apperror.ErrMissingIdentity
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrMalformedIdentity, raw, err)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, storeError("user lookup", err)
	}

	if !user.IsVerified {
		return nil, apperror.ErrUnverifiedAccount
	}
	return user, nil
}

// CurrentUserOptional is the single place where resolution errors are discarded.
func (s *sessionResolver) CurrentUserOptional(ctx context.Context, claims *outbound.TokenClaims) (user *entity.User) {
	if claims == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn(ctx, "Optional user resolution panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			user = nil
		}
	}()

	user, err := s.CurrentUser(ctx, claims)
	if err != nil {
		s.logger.Debug(ctx, "Optional user not resolved", map[string]interface{}{"reason": err.Error()})
		return nil
	}
	return user
}

func (s *sessionResolver) RequireAdmin(user *entity.User) (*entity.User, error) {
	if user == nil || !user.IsAdmin() {
		return nil, apperror.ErrInsufficientRole
	}
	return user, nil
}
