package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/unifind/unifind/application/port/inbound"
	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/domain/entity"
	"github.com/unifind/unifind/domain/valueobject"
	"github.com/unifind/unifind/infrastructure/service/logger"
)

type AuthConfig struct {
	RefreshTokenTTL time.Duration
	RevocationTTL   time.Duration
	AutoVerify      bool
}

type authUseCase struct {
	users      outbound.UserRepository
	tokens     outbound.TokenService
	passwords  outbound.PasswordService
	revocation outbound.RevocationStore
	logger     logger.Logger
	cfg        AuthConfig
}

func NewAuthUseCase(
	users outbound.UserRepository,
	tokens outbound.TokenService,
	passwords outbound.PasswordService,
	revocation outbound.RevocationStore,
	log logger.Logger,
	cfg AuthConfig,
) inbound.AuthUseCase {
	return &authUseCase{
		users:      users,
		tokens:     tokens,
		passwords:  passwords,
		revocation: revocation,
		logger:     log,
		cfg:        cfg,
	}
}

func (uc *authUseCase) Signup(ctx context.Context, req inbound.SignupRequest) (*inbound.UserResponse, error) {
	req.Email = valueobject.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	exists, err := uc.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, storeError("check email", err)
	}
	if exists {
		logger.LogAuthEvent(ctx, uc.logger, "signup_duplicate_email", "", "", false, map[string]interface{}{
			"email": req.Email,
		})
		return nil, apperror.WithMessage(apperror.ErrConflict, "User with email already exists")
	}

	hash, err := uc.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal("hash password", err)
	}

	user := entity.NewUser(uuid.NewString(), req.Username, req.Email, req.FirstName, req.LastName, hash, entity.RoleUser, uc.cfg.AutoVerify)
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, outbound.ErrUserAlreadyExists) {
			return nil, apperror.WithMessage(apperror.ErrConflict, "User with email already exists")
		}
		return nil, storeError("create user", err)
	}

	logger.LogAuthEvent(ctx, uc.logger, "signup", user.UID, "", true, nil)
	return inbound.NewUserResponse(user), nil
}

func (uc *authUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	req.Email = valueobject.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	start := time.Now()
	user, err := uc.users.FindByEmail(ctx, req.Email)
	logger.LogPerformance(ctx, uc.logger, "login_user_lookup", time.Since(start), nil)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			logger.LogAuthEvent(ctx, uc.logger, "login_failed_user_not_found", "", "", false, map[string]interface{}{
				"email": req.Email,
			})
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, storeError("find user", err)
	}

	ok, err := uc.passwords.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		logger.LogAuthEvent(ctx, uc.logger, "login_failed_invalid_password", user.UID, "", false, nil)
		return nil, apperror.ErrInvalidCredentials
	}

	payload := outbound.SubjectPayload{
		outbound.SubjectUserIDKey: user.UID,
		"email":                   user.Email,
		"role":                    user.Role.String(),
	}

	access, err := uc.tokens.IssueAccessToken(payload)
	if err != nil {
		return nil, apperror.Internal("issue access token", err)
	}
	refresh, err := uc.tokens.IssueRefreshToken(payload, uc.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, apperror.Internal("issue refresh token", err)
	}

	logger.LogAuthEvent(ctx, uc.logger, "login", user.UID, "", true, nil)

	pair := valueobject.NewTokenPair(access, refresh)
	return &inbound.LoginResponse{
		Message:      "Login successful",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		User:         inbound.LoginUser{UID: user.UID, Email: user.Email},
	}, nil
}

func (uc *authUseCase) Refresh(ctx context.Context, claims *outbound.TokenClaims) (*inbound.RefreshResponse, error) {
	if claims == nil || claims.Identity() == "" {
		return nil, apperror.ErrMissingIdentity
	}

	payload := claims.User
	if payload == nil {
		payload = outbound.SubjectPayload{outbound.SubjectUserIDKey: claims.Identity()}
	}

	access, err := uc.tokens.IssueAccessToken(payload)
	if err != nil {
		return nil, apperror.Internal("issue access token", err)
	}

	logger.LogAuthEvent(ctx, uc.logger, "token_refreshed", claims.Identity(), "", true, nil)
	return &inbound.RefreshResponse{AccessToken: access, TokenType: valueobject.BearerTokenType}, nil
}

// Logout blocklists the token id for the token's own validity window.
func (uc *authUseCase) Logout(ctx context.Context, claims *outbound.TokenClaims) error {
	if claims == nil || claims.TokenID == "" {
		return apperror.ErrInvalidToken
	}

	ttl := claims.Lifetime()
	if ttl <= 0 {
		ttl = uc.cfg.RevocationTTL
	}
	if err := uc.revocation.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return apperror.StoreUnavailable("revocation.revoke", err)
	}

	logger.LogAuthEvent(ctx, uc.logger, "logout", claims.Identity(), "", true, map[string]interface{}{
		"jti": claims.TokenID,
	})
	return nil
}

// storeError keeps StoreUnavailable as is and hides anything else behind Internal.
func storeError(op string, err error) error {
	if errors.Is(err, apperror.ErrStoreUnavailable) {
		return err
	}
	return apperror.Internal(op, err)
}
