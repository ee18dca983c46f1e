package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// revokedKeyPrefix namespaces revocation keys in Redis.
const revokedKeyPrefix = "revoked:"

// RevocationList records revoked token ids in Redis. Entries expire with
// the token itself, so the list never needs manual cleanup.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList creates a revocation list backed by the given client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// Revoke marks a token id as revoked until its expiry time. Tokens that
// are already past expiry are ignored.
func (rl *RevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := rl.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token id has been revoked.
func (rl *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := rl.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
