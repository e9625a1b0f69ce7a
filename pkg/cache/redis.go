package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis. Used by the server so that several
// replicas share results. Transient connection failures are retried with
// backoff.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache connects to the Redis instance at url
// (redis://[:password@]host:port/db). All keys are stored under prefix.
func NewRedisCache(url, prefix string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisCacheFromClient(redis.NewClient(opts), prefix), nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.classify(c.client.Ping(ctx).Err())
}

// Get retrieves a value.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	var hit bool
	err := RetryWithBackoff(ctx, func() error {
		b, err := c.client.Get(ctx, c.key(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return c.classify(err)
		}
		data, hit = b, true
		return nil
	})
	if err != nil {
		return nil, false, unwrapRetryable(err)
	}
	return data, hit, nil
}

// Set stores a value. A zero ttl never expires.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := RetryWithBackoff(ctx, func() error {
		return c.classify(c.client.Set(ctx, c.key(key), data, ttl).Err())
	})
	return unwrapRetryable(err)
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := RetryWithBackoff(ctx, func() error {
		return c.classify(c.client.Del(ctx, c.key(key)).Err())
	})
	return unwrapRetryable(err)
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) key(k string) string { return c.prefix + k }

// classify marks connection-level failures as retryable and tags them with
// ErrUnavailable.
func (c *RedisCache) classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, redis.ErrClosed) {
		return Retryable(fmt.Errorf("%w: %w", ErrUnavailable, err))
	}
	return err
}

func unwrapRetryable(err error) error {
	var re *RetryableError
	if errors.As(err, &re) {
		return re.Err
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
