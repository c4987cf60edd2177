package cache

import (
	"context"
	c "ovidot/internal/core/domain/common"
	e "ovidot/internal/core/domain/errors"
	"time"
)

// DefaultBucketTTL is the lifetime of a bucket measured from its latest write.
const DefaultBucketTTL = 20 * 24 * time.Hour

var (
	ErrNotInitialized = e.New(e.KindDependency, "cache is not initialized")
	ErrUnavailable    = e.New(e.KindDependency, "cache is unavailable")
)

// Bucket is a named group of fields sharing one expiry clock.
type Bucket string

// Store is a bucketed key-value store with one TTL per bucket.
//
// Every Set refreshes the TTL of the whole bucket, so writing any field extends
// the life of all other fields in the same bucket. Callers must not assume
// independent expiry per field.
//
// A missing bucket or field is not an error: Get reports it as an absent value.
// Connectivity problems are reported as ErrNotInitialized or ErrUnavailable and
// callers decide whether to fail open or closed.
type Store interface {
	Set(ctx context.Context, bucket Bucket, field string, value string) error
	Get(ctx context.Context, bucket Bucket, field string) (c.Optional[string], error)
	Delete(ctx context.Context, bucket Bucket, field string) error
	Ping(ctx context.Context) error
}
