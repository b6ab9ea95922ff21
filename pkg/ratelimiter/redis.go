package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript trims the window, counts, and records the attempt in one
// round trip so concurrent instances cannot both take the last slot.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
if redis.call('ZCARD', key) >= limit then
	return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// RedisLimiter is a sliding window limiter shared by every API instance
type RedisLimiter struct {
	policies

	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisClient connects to Redis and checks the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewRedisLimiter creates a limiter storing attempts under "ratelimit:" keys
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{
		policies: newPolicies(),
		client:   client,
		prefix:   "ratelimit:",
		now:      time.Now,
	}
}

func (rl *RedisLimiter) Allow(ctx context.Context, namespace, key string) (bool, error) {
	policy, exists := rl.Policy(namespace)
	if !exists {
		return false, nil
	}

	now := rl.now().UnixMilli()
	allowed, err := slidingWindowScript.Run(ctx, rl.client,
		[]string{rl.prefix + compositeKey(namespace, key)},
		now,
		policy.Window.Milliseconds(),
		policy.MaxAttempts,
		fmt.Sprintf("%d-%s", now, uuid.NewString()),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to evaluate rate limit: %w", err)
	}

	return allowed == 1, nil
}

// Reset clears all recorded attempts for the given namespace and key
func (rl *RedisLimiter) Reset(ctx context.Context, namespace, key string) error {
	if err := rl.client.Del(ctx, rl.prefix+compositeKey(namespace, key)).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit: %w", err)
	}
	return nil
}
