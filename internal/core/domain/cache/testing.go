package cache

import (
	"context"
	c "ovidot/internal/core/domain/common"
	"sync"
	"time"
)

type fakeBucket struct {
	fields    map[string]string
	expiresAt time.Time
}

// FakeStore keeps buckets in memory and follows the same bucket-wide TTL rules
// as the real stores. Time is read from Now so tests can move it forward.
type FakeStore struct {
	Now         func() time.Time
	TTL         time.Duration
	ReturnError bool
	buckets     map[Bucket]*fakeBucket
	lock        sync.Mutex
}

func NewFakeStore(now func() time.Time) *FakeStore {
	return &FakeStore{
		Now:     now,
		TTL:     DefaultBucketTTL,
		buckets: make(map[Bucket]*fakeBucket),
	}
}

func (s *FakeStore) Set(ctx context.Context, bucket Bucket, field string, value string) error {
	if s.ReturnError {
		return ErrUnavailable
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	b := s.liveBucket(bucket)
	if b == nil {
		b = &fakeBucket{fields: make(map[string]string)}
		s.buckets[bucket] = b
	}
	b.fields[field] = value
	b.expiresAt = s.Now().Add(s.TTL)
	return nil
}

func (s *FakeStore) Get(ctx context.Context, bucket Bucket, field string) (c.Optional[string], error) {
	if s.ReturnError {
		return c.None[string](), ErrUnavailable
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	b := s.liveBucket(bucket)
	if b == nil {
		return c.None[string](), nil
	}
	value, ok := b.fields[field]
	return c.NewOptional(value, ok), nil
}

func (s *FakeStore) Delete(ctx context.Context, bucket Bucket, field string) error {
	if s.ReturnError {
		return ErrUnavailable
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if b := s.liveBucket(bucket); b != nil {
		delete(b.fields, field)
	}
	return nil
}

func (s *FakeStore) Ping(ctx context.Context) error {
	if s.ReturnError {
		return ErrUnavailable
	}
	return nil
}

func (s *FakeStore) liveBucket(bucket Bucket) *fakeBucket {
	b, ok := s.buckets[bucket]
	if !ok {
		return nil
	}
	if !s.Now().Before(b.expiresAt) {
		delete(s.buckets, bucket)
		return nil
	}
	return b
}
