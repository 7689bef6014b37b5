package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/unifind/unifind/application/port/inbound"
	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/domain/entity"
	"github.com/unifind/unifind/infrastructure/http/response"
)

type contextKey string

const (
	claimsKey contextKey = "auth_claims"
	userKey   contextKey = "auth_user"
)

type AuthMiddleware struct {
	guard    inbound.TokenGuard
	sessions inbound.SessionResolver
}

func NewAuthMiddleware(guard inbound.TokenGuard, sessions inbound.SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{
		guard:    guard,
		sessions: sessions,
	}
}

// RequireAccess rejects requests without a valid, unrevoked access token.
func (m *AuthMiddleware) RequireAccess(next http.HandlerFunc) http.HandlerFunc {
	return m.require(inbound.AccessToken, next)
}

// RequireRefresh rejects requests without a valid, unrevoked refresh token.
func (m *AuthMiddleware) RequireRefresh(next http.HandlerFunc) http.HandlerFunc {
	return m.require(inbound.RefreshToken, next)
}

func (m *AuthMiddleware) require(kind inbound.TokenKind, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bearer, ok := bearerToken(r)
		if !ok {
			response.AppError(w, apperror.ErrMissingCredentials)
			return
		}

		claims, err := m.guard.Verify(r.Context(), bearer, kind)
		if err != nil {
			response.AppError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	}
}

// OptionalAuth attaches claims when a valid access token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bearer, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		claims := m.guard.VerifyOptional(r.Context(), bearer)
		if claims == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	}
}

// RequireUser resolves the verified account behind an access token.
func (m *AuthMiddleware) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAccess(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.sessions.CurrentUser(r.Context(), ClaimsFromContext(r.Context()))
		if err != nil {
			response.AppError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func (m *AuthMiddleware) OptionalUser(next http.HandlerFunc) http.HandlerFunc {
	return m.OptionalAuth(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			next.ServeHTTP(w, r)
			return
		}
		user := m.sessions.CurrentUserOptional(r.Context(), claims)
		if user == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func (m *AuthMiddleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireUser(func(w http.ResponseWriter, r *http.Request) {
		if _, err := m.sessions.RequireAdmin(UserFromContext(r.Context())); err != nil {
			response.AppError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ClaimsFromContext(ctx context.Context) *outbound.TokenClaims {
	claims, _ := ctx.Value(claimsKey).(*outbound.TokenClaims)
	return claims
}

func UserFromContext(ctx context.Context) *entity.User {
	user, _ := ctx.Value(userKey).(*entity.User)
	return user
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
