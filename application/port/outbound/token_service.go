package outbound

import (
	"strings"
	"time"
)

// SubjectUserIDKey is the canonical claim path user.user_uid carrying the user id.
const SubjectUserIDKey = "user_uid"

// SubjectPayload is the opaque "user" object embedded in every token.
type SubjectPayload map[string]interface{}

// UserID returns the canonical user id stored in the payload, if any.
func (p SubjectPayload) UserID() string {
	if p == nil {
		return ""
	}
	id, _ := p[SubjectUserIDKey].(string)
	return strings.TrimSpace(id)
}

// TokenClaims is a decoded token. Decoding never fills it for a token whose
// signature or algorithm does not check out.
type TokenClaims struct {
	User      SubjectPayload
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Refresh   bool
}

// Identity returns user.user_uid, falling back to the standard subject.
func (c *TokenClaims) Identity() string {
	if id := c.User.UserID(); id != "" {
		return id
	}
	return strings.TrimSpace(c.Subject)
}

// Lifetime is the token's original validity window, or zero when unknown.
func (c *TokenClaims) Lifetime() time.Duration {
	if c.IssuedAt.IsZero() || c.ExpiresAt.IsZero() {
		return 0
	}
	return c.ExpiresAt.Sub(c.IssuedAt)
}

type TokenService interface {
	// Issue signs a token for payload valid for validity from now.
	Issue(payload SubjectPayload, validity time.Duration, refresh bool) (string, error)
	// IssueAccessToken issues an access token with the default validity.
	IssueAccessToken(payload SubjectPayload) (string, error)
	IssueRefreshToken(payload SubjectPayload, validity time.Duration) (string, error)
	// Decode verifies signature and algorithm only.
	Decode(token string) (*TokenClaims, error)
	// CheckExpiry applies the signing library's expiry rules to decoded claims.
	CheckExpiry(claims *TokenClaims) error
}
