package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Holocron-Auth/holocron-core/domain"
)

type RedisClient struct{ *redis.Client }

func NewRedis(addr, pass string, db int) *RedisClient {
	return &RedisClient{redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (c *RedisClient) Ping(ctx context.Context) error { return c.Client.Ping(ctx).Err() }

// RedisLocker implements domain.Locker with SetNX. The two read-then-write
// paths in the core (OTP generation, consent find-or-create) use it to keep
// check-and-create atomic across concurrent requests.
type RedisLocker struct {
	client *redis.Client
	prefix string
}

// NewRedisLocker creates a SetNX-based locker
func NewRedisLocker(client *redis.Client) domain.Locker {
	return &RedisLocker{client: client, prefix: "lock:"}
}

// Acquire implements domain.Locker
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, l.prefix+key, 1, ttl).Result()
}

// Release implements domain.Locker
func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.prefix+key).Err()
}
