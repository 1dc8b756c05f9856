package caching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed logins per username and locks the username
// once the count reaches the configured maximum.
type LoginLimiter interface {
	Allow(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
	Ping(ctx context.Context) error
}

// NewRedisClient builds a client from an address that may carry a redis:// scheme
func NewRedisClient(addr, password string, db int) *redis.Client {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if opts, err := redis.ParseURL(addr); err == nil {
			if password != "" {
				opts.Password = password
			}
			if db != 0 {
				opts.DB = db
			}
			return redis.NewClient(opts)
		}
	}

	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

type redisLoginLimiter struct {
	client      redis.Cmdable
	maxFailures int
	window      time.Duration
	log         *slog.Logger
}

func NewRedisLoginLimiter(client redis.Cmdable, maxFailures int, window time.Duration, log *slog.Logger) LoginLimiter {
	return &redisLoginLimiter{
		client:      client,
		maxFailures: maxFailures,
		window:      window,
		log:         log,
	}
}

// loginFailureKey is case-sensitive like the username constraint
func loginFailureKey(username string) string {
	return fmt.Sprintf("storefront:login_failures:%s", username)
}

// Allow fails open: a Redis outage must not lock every user out
func (r *redisLoginLimiter) Allow(ctx context.Context, username string) (bool, error) {
	count, err := r.client.Get(ctx, loginFailureKey(username)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		r.log.WarnContext(ctx, "login limiter unavailable", slog.String("error", err.Error()))
		return true, err
	}
	return count < r.maxFailures, nil
}

func (r *redisLoginLimiter) RecordFailure(ctx context.Context, username string) error {
	key := loginFailureKey(username)

	// The counter and its expiry are created together; INCR keeps the TTL,
	// so the window starts at the first failure.
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, r.window)
		pipe.Incr(ctx, key)
		return nil
	})
	return err
}

func (r *redisLoginLimiter) Reset(ctx context.Context, username string) error {
	return r.client.Del(ctx, loginFailureKey(username)).Err()
}

func (r *redisLoginLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type noopLoginLimiter struct{}

// NewNoopLoginLimiter is used when no Redis address is configured
func NewNoopLoginLimiter() LoginLimiter {
	return noopLoginLimiter{}
}

func (noopLoginLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
func (noopLoginLimiter) RecordFailure(context.Context, string) error { return nil }
func (noopLoginLimiter) Reset(context.Context, string) error         { return nil }
func (noopLoginLimiter) Ping(context.Context) error                  { return nil }
