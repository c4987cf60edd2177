package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"ovidot/internal/core/domain/cache"
	c "ovidot/internal/core/domain/common"

	"github.com/jellydator/ttlcache/v2"
)

type memoryBucket struct {
	fields    map[string]string
	expiresAt time.Time
}

// Memory keeps each bucket as one ttlcache item so a write re-arms the expiry
// of the whole bucket. Reads never extend it.
type Memory struct {
	items     *ttlcache.Cache
	bucketTTL time.Duration
	lock      sync.Mutex
}

func NewMemory(bucketTTL time.Duration) *Memory {
	if bucketTTL <= 0 {
		bucketTTL = cache.DefaultBucketTTL
	}
	items := ttlcache.NewCache()
	items.SkipTTLExtensionOnHit(true)
	return &Memory{items: items, bucketTTL: bucketTTL}
}

func (m *Memory) Close() error {
	return m.items.Close()
}

func (m *Memory) Set(ctx context.Context, bucket cache.Bucket, field string, value string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	current, err := m.bucket(bucket)
	if err != nil {
		return err
	}
	updated := memoryBucket{
		fields:    make(map[string]string, len(current.fields)+1),
		expiresAt: time.Now().Add(m.bucketTTL),
	}
	for k, v := range current.fields {
		updated.fields[k] = v
	}
	updated.fields[field] = value
	if err := m.items.SetWithTTL(string(bucket), updated, m.bucketTTL); err != nil {
		return toStoreError(err)
	}
	return nil
}

func (m *Memory) Get(ctx context.Context, bucket cache.Bucket, field string) (c.Optional[string], error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	current, err := m.bucket(bucket)
	if err != nil {
		return c.None[string](), err
	}
	value, ok := current.fields[field]
	return c.NewOptional(value, ok), nil
}

func (m *Memory) Delete(ctx context.Context, bucket cache.Bucket, field string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	current, err := m.bucket(bucket)
	if err != nil {
		return err
	}
	if _, ok := current.fields[field]; !ok {
		return nil
	}
	remaining := memoryBucket{
		fields:    make(map[string]string, len(current.fields)),
		expiresAt: current.expiresAt,
	}
	for k, v := range current.fields {
		if k != field {
			remaining.fields[k] = v
		}
	}
	// Removing a field keeps the current expiry.
	ttl := time.Until(current.expiresAt)
	if ttl <= 0 {
		if err := m.items.Remove(string(bucket)); err != nil && !errors.Is(err, ttlcache.ErrNotFound) {
			return toStoreError(err)
		}
		return nil
	}
	if err := m.items.SetWithTTL(string(bucket), remaining, ttl); err != nil {
		return toStoreError(err)
	}
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	if _, err := m.items.Get("__ping__"); err != nil && !errors.Is(err, ttlcache.ErrNotFound) {
		return toStoreError(err)
	}
	return nil
}

func (m *Memory) bucket(bucket cache.Bucket) (b memoryBucket, err error) {
	item, err := m.items.Get(string(bucket))
	if errors.Is(err, ttlcache.ErrNotFound) {
		return b, nil
	}
	if err != nil {
		return b, toStoreError(err)
	}
	b, _ = item.(memoryBucket)
	if !time.Now().Before(b.expiresAt) {
		return memoryBucket{}, nil
	}
	return b, nil
}

func toStoreError(err error) error {
	if errors.Is(err, ttlcache.ErrClosed) {
		return cache.ErrNotInitialized
	}
	return cache.ErrUnavailable
}
