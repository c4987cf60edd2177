package cache

import (
	"context"
	"testing"
	"time"

	"ovidot/internal/core/domain/cache"
	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/logging"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v9"
	"github.com/stretchr/testify/require"
)

const BUCKET = cache.Bucket("test-bucket")

type redisSuite struct {
	server *miniredis.Miniredis
	log    *logging.FakeLogger
	store  *Redis
}

func setupRedisSuite(t *testing.T) *redisSuite {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	log := logging.NewFakeLogger()
	store := NewRedis(client, log, Settings{
		BucketTTL:        time.Hour,
		OperationTimeout: time.Second,
		MaxRetries:       2,
	})
	t.Cleanup(func() { store.Close() })
	return &redisSuite{server: server, log: log, store: store}
}

func TestRedisNotInitialized(t *testing.T) {
	// Setup ---
	suite := setupRedisSuite(t)
	ctx := context.Background()

	// Exercise ---
	setErr := suite.store.Set(ctx, BUCKET, "a", "1")
	_, getErr := suite.store.Get(ctx, BUCKET, "a")

	// Verify ---
	require.ErrorIs(t, setErr, cache.ErrNotInitialized)
	require.ErrorIs(t, getErr, cache.ErrNotInitialized)
	require.Equal(t, e.KindDependency, e.KindOf(getErr))
}

func TestRedisSetGetDelete(t *testing.T) {
	// Setup ---
	suite := setupRedisSuite(t)
	ctx := context.Background()
	require.NoError(t, suite.store.Connect(ctx))

	// Exercise ---
	require.NoError(t, suite.store.Set(ctx, BUCKET, "a", "1"))
	value, err := suite.store.Get(ctx, BUCKET, "a")
	require.NoError(t, err)
	missing, err := suite.store.Get(ctx, BUCKET, "b")
	require.NoError(t, err)
	require.NoError(t, suite.store.Delete(ctx, BUCKET, "a"))
	deleted, err := suite.store.Get(ctx, BUCKET, "a")
	require.NoError(t, err)

	// Verify ---
	require.True(t, value.IsPresent)
	require.Equal(t, "1", value.Value)
	require.False(t, missing.IsPresent)
	require.False(t, deleted.IsPresent)
}

func TestRedisBucketTTLRefreshedOnWrite(t *testing.T) {
	// Setup ---
	suite := setupRedisSuite(t)
	ctx := context.Background()
	require.NoError(t, suite.store.Connect(ctx))
	require.NoError(t, suite.store.Set(ctx, BUCKET, "a", "1"))

	// Exercise ---
	suite.server.FastForward(50 * time.Minute)
	require.NoError(t, suite.store.Set(ctx, BUCKET, "b", "2"))
	suite.server.FastForward(50 * time.Minute)

	// Verify ---
	value, err := suite.store.Get(ctx, BUCKET, "a")
	require.NoError(t, err)
	require.True(t, value.IsPresent)
	require.Equal(t, time.Hour-50*time.Minute, suite.server.TTL(string(BUCKET)))

	suite.server.FastForward(10 * time.Minute)
	value, err = suite.store.Get(ctx, BUCKET, "a")
	require.NoError(t, err)
	require.False(t, value.IsPresent)
	value, err = suite.store.Get(ctx, BUCKET, "b")
	require.NoError(t, err)
	require.False(t, value.IsPresent)
}

func TestRedisBucketsExpireIndependently(t *testing.T) {
	// Setup ---
	suite := setupRedisSuite(t)
	ctx := context.Background()
	require.NoError(t, suite.store.Connect(ctx))
	require.NoError(t, suite.store.Set(ctx, "first", "a", "1"))

	// Exercise ---
	suite.server.FastForward(50 * time.Minute)
	require.NoError(t, suite.store.Set(ctx, "second", "a", "1"))
	suite.server.FastForward(20 * time.Minute)

	// Verify ---
	value, err := suite.store.Get(ctx, "first", "a")
	require.NoError(t, err)
	require.False(t, value.IsPresent)
	value, err = suite.store.Get(ctx, "second", "a")
	require.NoError(t, err)
	require.True(t, value.IsPresent)
}

func TestRedisUnavailable(t *testing.T) {
	// Setup ---
	suite := setupRedisSuite(t)
	ctx := context.Background()
	require.NoError(t, suite.store.Connect(ctx))
	suite.server.Close()

	// Exercise ---
	err := suite.store.Set(ctx, BUCKET, "a", "1")
	_, getErr := suite.store.Get(ctx, BUCKET, "a")

	// Verify ---
	require.ErrorIs(t, err, cache.ErrUnavailable)
	require.ErrorIs(t, getErr, cache.ErrUnavailable)
	require.Equal(t, 2, suite.log.Count(logging.ERROR))
}

func TestRedisConnectGivesUp(t *testing.T) {
	// Setup ---
	suite := setupRedisSuite(t)
	suite.server.Close()

	// Exercise ---
	err := suite.store.Connect(context.Background())

	// Verify ---
	require.ErrorIs(t, err, cache.ErrUnavailable)
	require.Equal(t, 3, suite.log.Count(logging.WARNING))
	require.ErrorIs(t, suite.store.Ping(context.Background()), cache.ErrNotInitialized)
}

func TestRedisLocalOptions(t *testing.T) {
	options, err := NewRedisOptions(RedisConfig{Local: true, Addr: "localhost:6379", MaxRetries: 10})

	require.NoError(t, err)
	require.Equal(t, "localhost:6379", options.Addr)
	require.Nil(t, options.TLSConfig)
	require.Equal(t, 10, options.MaxRetries)
	require.Equal(t, MIN_RETRY_BACKOFF, options.MinRetryBackoff)
	require.Equal(t, MAX_RETRY_BACKOFF, options.MaxRetryBackoff)
}

func TestRedisSecuredOptionsRequireCertificates(t *testing.T) {
	_, err := NewRedisOptions(RedisConfig{Addr: "redis.example.com:6380", Username: "u", Password: "p"})

	require.Error(t, err)
}
