package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/unifind/unifind/application/port/outbound"
	"github.com/unifind/unifind/domain/apperror"
	"github.com/unifind/unifind/infrastructure/config"
)

// tokenClaims is the wire shape of every token this service signs.
type tokenClaims struct {
	User    map[string]interface{} `json:"user"`
	Refresh bool                   `json:"refresh"`
	jwt.RegisteredClaims
}

type JWTService struct {
	method    jwt.SigningMethod
	secret    []byte
	accessTTL time.Duration
	leeway    time.Duration
	now       func() time.Time
}

var _ outbound.TokenService = (*JWTService)(nil)

type Option func(*JWTService)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) { s.now = now }
}

func NewJWTService(cfg *config.Config, opts ...Option) (*JWTService, error) {
	var method jwt.SigningMethod
	switch cfg.JWTAlgorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported JWT algorithm: %s", cfg.JWTAlgorithm)
	}
	if cfg.JWTSecret == "" {
		return nil, config.ErrMissingJWTSecret
	}

	s := &JWTService{
		method:    method,
		secret:    []byte(cfg.JWTSecret),
		accessTTL: cfg.AccessTokenTTL,
		leeway:    cfg.JWTLeeway,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *JWTService) Issue(payload outbound.SubjectPayload, validity time.Duration, refresh bool) (string, error) {
	now := s.now()
	user := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		user[k] = v
	}

	claims := tokenClaims{
		User:    user,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.UserID(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) IssueAccessToken(payload outbound.SubjectPayload) (string, error) {
	return s.Issue(payload, s.accessTTL, false)
}

func (s *JWTService) IssueRefreshToken(payload outbound.SubjectPayload, validity time.Duration) (string, error) {
	return s.Issue(payload, validity, true)
}

// Decode checks signature and algorithm and returns the claims even when expired.
func (s *JWTService) Decode(token string) (claims *outbound.TokenClaims, err error) {
	defer func() {
		if r := recover(); r != nil {
			claims = nil
			err = apperror.Wrap(apperror.ErrInvalidToken, fmt.Sprintf("decode panic: %v", r), nil)
		}
	}()

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var raw tokenClaims
	if _, err := parser.ParseWithClaims(token, &raw, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}); err != nil {
		return nil, apperror.Wrap(apperror.ErrInvalidToken, "decode", err)
	}

	out := &outbound.TokenClaims{
		User:    outbound.SubjectPayload(raw.User),
		Subject: raw.Subject,
		TokenID: raw.ID,
		Refresh: raw.Refresh,
	}
	if raw.IssuedAt != nil {
		out.IssuedAt = raw.IssuedAt.Time
	}
	if raw.ExpiresAt != nil {
		out.ExpiresAt = raw.ExpiresAt.Time
	}
	return out, nil
}

func (s *JWTService) CheckExpiry(claims *outbound.TokenClaims) error {
	if claims == nil {
		return apperror.Wrap(apperror.ErrInvalidToken, "no claims", nil)
	}

	registered := jwt.RegisteredClaims{}
	if !claims.ExpiresAt.IsZero() {
		registered.ExpiresAt = jwt.NewNumericDate(claims.ExpiresAt)
	}

	validator := jwt.NewValidator(
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
	)
	if err := validator.Validate(registered); err != nil {
		return apperror.Wrap(apperror.ErrInvalidToken, "expired", err)
	}
	return nil
}
