package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares the revocation set between instances. Keys expire
// together with the token they describe.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "revoked"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *RedisStore) key(jti string) string {
	return fmt.Sprintf("%s:%s", s.prefix, jti)
}

func (s *RedisStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		// token is already unusable
		return nil
	}

	if err := s.client.Set(ctx, s.key(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke %s: %w", jti, err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", jti, err)
	}
	return n > 0, nil
}
