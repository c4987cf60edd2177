package blacklist

import (
	"context"

	"ovidot/internal/core/domain/cache"
	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/user"
)

const (
	BUCKET = cache.Bucket("blacklist")
	MARKER = "1"
)

// Cache records invalidated password reset tokens as fields of a single
// cache bucket. Entries live as long as the bucket, which is refreshed by
// every new invalidation.
type Cache struct {
	store cache.Store
}

func NewCache(store cache.Store) *Cache {
	if store == nil {
		panic(e.NewNilArgumentError("store"))
	}
	return &Cache{store: store}
}

func (b *Cache) Invalidate(ctx context.Context, token user.PasswordResetToken) error {
	return b.store.Set(ctx, BUCKET, string(token), MARKER)
}

func (b *Cache) IsBlacklisted(ctx context.Context, token user.PasswordResetToken) (bool, error) {
	value, err := b.store.Get(ctx, BUCKET, string(token))
	if err != nil {
		return false, err
	}
	return value.IsPresent, nil
}
