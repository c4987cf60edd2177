package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"ovidot/internal/core/domain/cache"
	c "ovidot/internal/core/domain/common"
	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/logging"

	"github.com/go-redis/redis/v9"
	"github.com/sethvargo/go-retry"
)

const (
	MIN_RETRY_BACKOFF = 50 * time.Millisecond
	MAX_RETRY_BACKOFF = 2 * time.Second
)

type Settings struct {
	BucketTTL        time.Duration
	OperationTimeout time.Duration
	MaxRetries       int
}

// Redis stores every bucket as a hash whose key expiry is reset on each write.
type Redis struct {
	client   *redis.Client
	log      logging.Logger
	settings Settings
	ready    atomic.Bool
}

func NewRedis(client *redis.Client, log logging.Logger, settings Settings) *Redis {
	if client == nil {
		panic(e.NewNilArgumentError("client"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if settings.BucketTTL <= 0 {
		settings.BucketTTL = cache.DefaultBucketTTL
	}
	return &Redis{client: client, log: log, settings: settings}
}

// Connect pings the server with exponential backoff until it answers or the
// retry budget is spent. Operations fail with cache.ErrNotInitialized until
// Connect succeeds.
func (r *Redis) Connect(ctx context.Context) error {
	backoff := retry.NewExponential(MIN_RETRY_BACKOFF)
	backoff = retry.WithCappedDuration(MAX_RETRY_BACKOFF, backoff)
	backoff = retry.WithMaxRetries(uint64(r.settings.MaxRetries), backoff)

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		pingCtx, cancel := r.withTimeout(ctx)
		defer cancel()
		if err := r.client.Ping(pingCtx).Err(); err != nil {
			r.log.Warning(
				ctx,
				"Could not connect to Redis, retrying.",
				logging.Entry("attempt", attempt),
				logging.Entry("err", err),
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		r.log.Error(ctx, "Redis connection failed, cache is disabled.", logging.Entry("err", err))
		return fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
	}

	r.ready.Store(true)
	r.log.Info(ctx, "Redis connection established.", logging.Entry("attempts", attempt))
	return nil
}

func (r *Redis) Close() error {
	r.ready.Store(false)
	return r.client.Close()
}

func (r *Redis) Set(ctx context.Context, bucket cache.Bucket, field string, value string) error {
	if !r.ready.Load() {
		return cache.ErrNotInitialized
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	key := string(bucket)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field, value)
		pipe.Expire(ctx, key, r.settings.BucketTTL)
		return nil
	})
	if err != nil {
		return r.unavailable(ctx, "set", bucket, err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, bucket cache.Bucket, field string) (c.Optional[string], error) {
	if !r.ready.Load() {
		return c.None[string](), cache.ErrNotInitialized
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	value, err := r.client.HGet(ctx, string(bucket), field).Result()
	if errors.Is(err, redis.Nil) {
		return c.None[string](), nil
	}
	if err != nil {
		return c.None[string](), r.unavailable(ctx, "get", bucket, err)
	}
	return c.NewOptional(value, true), nil
}

func (r *Redis) Delete(ctx context.Context, bucket cache.Bucket, field string) error {
	if !r.ready.Load() {
		return cache.ErrNotInitialized
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.HDel(ctx, string(bucket), field).Err(); err != nil {
		return r.unavailable(ctx, "delete", bucket, err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.ready.Load() {
		return cache.ErrNotInitialized
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
	}
	return nil
}

func (r *Redis) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.settings.OperationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.settings.OperationTimeout)
}

func (r *Redis) unavailable(ctx context.Context, op string, bucket cache.Bucket, err error) error {
	r.log.Error(
		ctx,
		"Redis operation failed.",
		logging.Entry("op", op),
		logging.Entry("bucket", bucket),
		logging.Entry("err", err),
	)
	return fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
}
