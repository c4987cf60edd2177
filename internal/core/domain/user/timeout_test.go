package user

import (
	"context"
	"testing"
	"time"

	c "ovidot/internal/core/domain/common"
	e "ovidot/internal/core/domain/errors"

	"github.com/stretchr/testify/require"
)

type slowUserRepository struct {
	*FakeUserRepository
}

func (r *slowUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	<-ctx.Done()
	return u, ctx.Err()
}

func TestWithTimeoutExceeded(t *testing.T) {
	repo := WithTimeout(&slowUserRepository{NewFakeUserRepository()}, 10*time.Millisecond)

	_, err := repo.GetByEmail(context.Background(), c.NewEmail("test@example.com"))

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, e.KindDependency, e.KindOf(err))
}

func TestWithTimeoutPassesThrough(t *testing.T) {
	inner := NewFakeUserRepository()
	inner.Users = append(inner.Users, User{ID: "1", Email: c.NewEmail("test@example.com")})
	repo := WithTimeout(inner, time.Second)

	u, err := repo.GetByID(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, ID("1"), u.ID)

	_, err = repo.GetByID(context.Background(), "2")
	require.ErrorIs(t, err, ErrUserDoesNotExist)
}
