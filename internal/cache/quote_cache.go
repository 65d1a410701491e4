// Package cache provides the Redis-backed quote cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

// DefaultTTL bounds how long a computed quote is served from cache. Keys
// already change when a plan is edited, so the TTL only limits memory.
const DefaultTTL = 15 * time.Minute

// redisClient is the subset of *redis.Client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// QuoteCache stores computed quotes as JSON in Redis. Calls go through a
// circuit breaker so an unreachable Redis fails fast instead of adding
// latency to every quote.
type QuoteCache struct {
	client  redisClient
	breaker *gobreaker.CircuitBreaker[[]byte]
	ttl     time.Duration
	logger  *slog.Logger
}

// NewRedisClient parses a redis:// URL and returns a client.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamCache, "invalid redis url", err)
	}
	return redis.NewClient(opts), nil
}

// NewQuoteCache wraps client. A non-positive ttl uses DefaultTTL.
func NewQuoteCache(client redisClient, ttl time.Duration, logger *slog.Logger) *QuoteCache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &QuoteCache{client: client, ttl: ttl, logger: logger}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "quote-cache",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return c
}

// Get returns the cached quote. A miss is (nil, false, nil).
func (c *QuoteCache) Get(ctx context.Context, key string) (*types.Quote, bool, error) {
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.client.Get(ctx, key).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, cacheError("failed to read cached quote", err)
	}

	var q types.Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		// A corrupt entry is treated as a miss; the next Set overwrites it.
		c.logger.Warn("discarding undecodable cached quote", "key", key, "error", err)
		return nil, false, nil
	}
	return &q, true, nil
}

// Set stores the quote under key with the configured TTL.
func (c *QuoteCache) Set(ctx context.Context, key string, quote types.Quote) error {
	body, err := json.Marshal(quote)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "failed to encode quote", err)
	}
	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, key, body, c.ttl).Err()
	})
	if err != nil {
		return cacheError("failed to cache quote", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (c *QuoteCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return cacheError("redis ping failed", err)
	}
	return nil
}

func cacheError(msg string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		msg = "circuit breaker is open; " + msg
	}
	return types.NewAppError(types.ErrCodeUpstreamCache, msg, err)
}
