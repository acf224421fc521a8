package dedup

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"funds-transfer/internal/errors"
)

const defaultKeyPrefix = "transfer:debounce:"

// RedisGuard shares the debounce set between processes. SET NX with an
// expiry gives the same test-and-set semantics as Guard.
type RedisGuard struct {
	client redis.Cmdable
	window time.Duration
	prefix string
}

func NewRedisGuard(client redis.Cmdable, window time.Duration) *RedisGuard {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisGuard{
		client: client,
		window: window,
		prefix: defaultKeyPrefix,
	}
}

func (g *RedisGuard) Admit(ctx context.Context, key string) error {
	ok, err := g.client.SetNX(ctx, g.prefix+key, 1, g.window).Result()
	if err != nil {
		return errors.Internal(err, "failed to record debounce key")
	}
	if !ok {
		return errors.ErrDebounceRequest
	}
	return nil
}
