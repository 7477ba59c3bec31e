package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const inviteTTL = 24 * time.Hour

// ProvisionGuard is a best-effort idempotency check on invite emails, backed
// by Redis. It only prevents accidental double submission inside the TTL
// window; the unique constraint on the identity email is the hard gate.
// Key format: invite:<email>
type ProvisionGuard struct {
	client *redis.Client
}

// NewProvisionGuard creates a ProvisionGuard wrapping the given Redis client.
func NewProvisionGuard(client *redis.Client) *ProvisionGuard {
	return &ProvisionGuard{client: client}
}

// IsDuplicate reports whether an invite for this email was recently sent.
func (g *ProvisionGuard) IsDuplicate(ctx context.Context, email string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(email)).Result()
	if err != nil {
		return false, fmt.Errorf("invite guard check: %w", err)
	}
	return n > 0, nil
}

// Mark records that an invite was sent (expires after inviteTTL).
func (g *ProvisionGuard) Mark(ctx context.Context, email string) error {
	return g.client.Set(ctx, g.key(email), "1", inviteTTL).Err()
}

func (g *ProvisionGuard) key(email string) string {
	return "invite:" + email
}
