package jwt

import (
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/infrastructure/config"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T, clock *fakeClock) *JWTService {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		JWTAlgorithm:   "HS256",
		AccessTokenTTL: 5 * time.Hour,
	}
	opts := []Option{}
	if clock != nil {
		opts = append(opts, WithClock(clock.Now))
	}
	svc, err := NewJWTService(cfg, opts...)
	require.NoError(t, err)
	return svc
}

func payload(id string) outbound.SubjectPayload {
	return outbound.SubjectPayload{"user_uid": id, "email": "ada@example.com"}
}

func TestNewJWTService_RejectsUnknownAlgorithm(t *testing.T) {
	_, err := NewJWTService(&config.Config{JWTSecret: "s", JWTAlgorithm: "RS256"})
	assert.Error(t, err)

	_, err = NewJWTService(&config.Config{JWTAlgorithm: "HS256"})
	assert.ErrorIs(t, err, config.ErrMissingJWTSecret)
}

func TestIssueAndDecode(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, clock)

	token, err := svc.IssueAccessToken(payload("7d8e2f3a-1111-4222-8333-444455556666"))
	require.NoError(t, err)

	claims, err := svc.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "7d8e2f3a-1111-4222-8333-444455556666", claims.User.UserID())
	assert.Equal(t, "ada@example.com", claims.User["email"])
	assert.Equal(t, "7d8e2f3a-1111-4222-8333-444455556666", claims.Subject)
	assert.False(t, claims.Refresh)
	assert.NotEmpty(t, claims.TokenID)
	assert.Equal(t, clock.t.Add(5*time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, 5*time.Hour, claims.Lifetime())
}

func TestIssueRefreshToken_SetsFlag(t *testing.T) {
	svc := newTestService(t, nil)

	token, err := svc.IssueRefreshToken(payload("u1"), 48*time.Hour)
	require.NoError(t, err)

	claims, err := svc.Decode(token)
	require.NoError(t, err)
	assert.True(t, claims.Refresh)
	assert.InDelta(t, time.Now().Add(48*time.Hour).Unix(), claims.ExpiresAt.Unix(), 2)
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	svc := newTestService(t, nil)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := svc.Issue(payload("u1"), time.Minute, i%2 == 0)
		require.NoError(t, err)
		claims, err := svc.Decode(token)
		require.NoError(t, err)
		assert.False(t, seen[claims.TokenID], "duplicate jti %s", claims.TokenID)
		seen[claims.TokenID] = true
	}
}

func TestDecode_ReturnsExpiredClaims(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestService(t, clock)

	token, err := svc.Issue(payload("u1"), time.Second, false)
	require.NoError(t, err)

	clock.Advance(3 * time.Second)

	claims, err := svc.Decode(token)
	require.NoError(t, err)
	require.NotNil(t, claims)

	err = svc.CheckExpiry(claims)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
	assert.True(t, errors.Is(err, gojwt.ErrTokenExpired))
}

func TestCheckExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestService(t, clock)

	token, err := svc.Issue(payload("u1"), time.Minute, false)
	require.NoError(t, err)
	claims, err := svc.Decode(token)
	require.NoError(t, err)

	assert.NoError(t, svc.CheckExpiry(claims))

	t.Run("missing exp is rejected", func(t *testing.T) {
		assert.ErrorIs(t, svc.CheckExpiry(&outbound.TokenClaims{}), apperror.ErrInvalidToken)
	})

	t.Run("nil claims", func(t *testing.T) {
		assert.ErrorIs(t, svc.CheckExpiry(nil), apperror.ErrInvalidToken)
	})

	t.Run("leeway tolerates small skew", func(t *testing.T) {
		lenient, err := NewJWTService(&config.Config{
			JWTSecret:    "test-secret",
			JWTAlgorithm: "HS256",
			JWTLeeway:    30 * time.Second,
		}, WithClock(func() time.Time { return claims.ExpiresAt.Add(10 * time.Second) }))
		require.NoError(t, err)
		assert.NoError(t, lenient.CheckExpiry(claims))
	})
}

func TestDecode_Rejects(t *testing.T) {
	svc := newTestService(t, nil)

	other, err := NewJWTService(&config.Config{JWTSecret: "other-secret", JWTAlgorithm: "HS256"})
	require.NoError(t, err)
	foreign, err := other.IssueAccessToken(payload("u1"))
	require.NoError(t, err)

	hs512, err := NewJWTService(&config.Config{JWTSecret: "test-secret", JWTAlgorithm: "HS512"})
	require.NoError(t, err)
	wrongAlg, err := hs512.IssueAccessToken(payload("u1"))
	require.NoError(t, err)

	unsigned, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{"user": map[string]interface{}{"user_uid": "u1"}}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"three garbage segments", "a.b.c"},
		{"wrong secret", foreign},
		{"wrong algorithm", wrongAlg},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Decode(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, apperror.ErrInvalidToken)
		})
	}
}
