package outbound

import (
	"context"
	"time"
)

// RevocationStore is the token blocklist keyed by token id.
type RevocationStore interface {
	Contains(ctx context.Context, tokenID string) (bool, error)
	// Revoke is idempotent; the record expires after ttl.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}
