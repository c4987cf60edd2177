package user

import (
	"context"
	"time"

	c "ovidot/internal/core/domain/common"
	e "ovidot/internal/core/domain/errors"
)

type repositoryWithTimeout struct {
	inner   UserRepository
	timeout time.Duration
}

// WithTimeout bounds every call to inner. An exceeded deadline surfaces as
// context.DeadlineExceeded, which classifies as a dependency failure.
func WithTimeout(inner UserRepository, timeout time.Duration) UserRepository {
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	if timeout <= 0 {
		panic("timeout must be positive")
	}
	return &repositoryWithTimeout{inner: inner, timeout: timeout}
}

func (r *repositoryWithTimeout) GetByID(ctx context.Context, id ID) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.GetByID(ctx, id)
}

func (r *repositoryWithTimeout) GetByEmail(ctx context.Context, email c.Email) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.GetByEmail(ctx, email)
}

func (r *repositoryWithTimeout) SetPasswordResetToken(ctx context.Context, input SetPasswordResetTokenInput) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.SetPasswordResetToken(ctx, input)
}

func (r *repositoryWithTimeout) GetByPasswordResetToken(
	ctx context.Context,
	token PasswordResetToken,
	now time.Time,
) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.GetByPasswordResetToken(ctx, token, now)
}

func (r *repositoryWithTimeout) ResetPassword(ctx context.Context, input ResetPasswordInput) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.ResetPassword(ctx, input)
}

func (r *repositoryWithTimeout) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.ChangePassword(ctx, input)
}
