package inbound

import (
	"context"

	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/entity"
)

// TokenKind is the token role a guard requires.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

func (k TokenKind) String() string {
	if k == RefreshToken {
		return "refresh"
	}
	return "access"
}

// TokenGuard validates bearer tokens.
type TokenGuard interface {
	// Verify fails with MissingCredentials, InvalidToken, RevokedToken,
	// WrongTokenType or StoreUnavailable.
	Verify(ctx context.Context, bearer string, kind TokenKind) (*outbound.TokenClaims, error)
	// VerifyOptional returns nil on any failure.
	VerifyOptional(ctx context.Context, bearer string) *outbound.TokenClaims
}

// SessionResolver maps verified claims onto a stored user.
type SessionResolver interface {
	CurrentUser(ctx context.Context, claims *outbound.TokenClaims) (*entity.User, error)
	CurrentUserOptional(ctx context.Context, claims *outbound.TokenClaims) *entity.User
	RequireAdmin(user *entity.User) (*entity.User, error)
}
