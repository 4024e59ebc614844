package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "session:revoked:"

// SessionRevoker invalidates issued session tokens before their natural
// expiry. Revocation is the only mid-session invalidation; everything else
// in the token is a login-time snapshot.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisSessionRevoker struct {
	client *redis.Client
}

// NewRedisSessionRevoker stores revoked token IDs in Redis with a TTL equal
// to the remaining token lifetime, so entries expire together with the
// tokens they block.
func NewRedisSessionRevoker(client *redis.Client) SessionRevoker {
	return &redisSessionRevoker{client: client}
}

func (r *redisSessionRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

func (r *redisSessionRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
