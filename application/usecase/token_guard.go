package usecase

import (
	"context"
	"fmt"

	"github.com/unifind/unifind/application/port/inbound"
	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/infrastructure/service/logger"
)

type tokenGuard struct {
	tokens     outbound.TokenService
	revocation outbound.RevocationStore
	logger     logger.Logger
}

func NewTokenGuard(tokens outbound.TokenService, revocation outbound.RevocationStore, log logger.Logger) inbound.TokenGuard {
	return &tokenGuard{tokens: tokens, revocation: revocation, logger: log}
}

// Verify runs decode, expiry, revocation and type checks in that order.
func (g *tokenGuard) Verify(ctx context.Context, bearer string, kind inbound.TokenKind) (*outbound.TokenClaims, error) {
	if bearer == "" {
		return nil, apperror.ErrMissingCredentials
	}

	claims, err := g.tokens.Decode(bearer)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrInvalidToken, "decode", err)
	}
	if err := g.tokens.CheckExpiry(claims); err != nil {
		return nil, apperror.Wrap(apperror.ErrInvalidToken, "expired", err)
	}
	if claims.TokenID == "" {
		return nil, apperror.Wrap(apperror.ErrInvalidToken, "missing token id", nil)
	}

	revoked, err := g.revocation.Contains(ctx, claims.TokenID)
	if err != nil {
		g.logger.Error(ctx, "Revocation lookup failed", err, map[string]interface{}{
			"jti": claims.TokenID,
		})
		return nil, apperror.StoreUnavailable("revocation.contains", err)
	}
	if revoked {
		logger.LogSecurityEvent(ctx, g.logger, "revoked_token_presented", "MEDIUM", map[string]interface{}{
			"jti":     claims.TokenID,
			"user_id": claims.Identity(),
		})
		return nil, apperror.ErrRevokedToken
	}

	wantRefresh := kind == inbound.RefreshToken
	if claims.Refresh != wantRefresh {
		return nil, apperror.WrongTokenType(wantRefresh)
	}

	return claims, nil
}

// VerifyOptional treats every failure, panics included, as "no credentials".
func (g *tokenGuard) VerifyOptional(ctx context.Context, bearer string) (claims *outbound.TokenClaims) {
	if bearer == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn(ctx, "Optional token verification panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			claims = nil
		}
	}()

	claims, err := g.Verify(ctx, bearer, inbound.AccessToken)
	if err != nil {
		g.logger.Debug(ctx, "Optional token ignored", map[string]interface{}{"reason": err.Error()})
		return nil
	}
	return claims
}
