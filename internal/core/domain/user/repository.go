package user

import (
	"context"
	c "ovidot/internal/core/domain/common"
	"time"
)

type SetPasswordResetTokenInput struct {
	ID        ID
	Token     PasswordResetToken
	ExpiresAt time.Time
}

type ResetPasswordInput struct {
	Token        PasswordResetToken
	PasswordHash PasswordHash
	At           time.Time
}

type ChangePasswordInput struct {
	ID                  ID
	CurrentPasswordHash PasswordHash
	NewPasswordHash     PasswordHash
	Notifications       []Notification
}

type UserRepository interface {
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)

	// SetPasswordResetToken replaces any previously issued token of the user.
	SetPasswordResetToken(ctx context.Context, input SetPasswordResetTokenInput) error

	// GetByPasswordResetToken returns the user whose active token equals token
	// and expires strictly after now.
	GetByPasswordResetToken(ctx context.Context, token PasswordResetToken, now time.Time) (User, error)

	// ResetPassword atomically stores the new hash and clears the token, but
	// only while the token is still the active, unexpired one. Otherwise it
	// returns ErrInvalidPasswordResetToken and changes nothing.
	ResetPassword(ctx context.Context, input ResetPasswordInput) (User, error)

	// ChangePassword writes the new hash and the notification list in one
	// update, conditioned on the stored hash still being CurrentPasswordHash.
	ChangePassword(ctx context.Context, input ChangePasswordInput) error
}
