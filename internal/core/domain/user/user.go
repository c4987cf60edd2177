package user

import (
	"fmt"
	c "ovidot/internal/core/domain/common"
	e "ovidot/internal/core/domain/errors"
	"time"
)

type ID string

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type User struct {
	ID                     ID
	Email                  c.Email
	PasswordHash           PasswordHash
	PasswordResetToken     c.Optional[PasswordResetToken]
	PasswordResetExpiresAt c.Optional[time.Time]
	Notifications          []Notification
}

func (u *User) Validate() error {
	if u.Email == "" {
		return e.NewInvalidStateError(fmt.Sprintf("email is not set for user %s", u.ID))
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %s", u.ID))
	}
	if u.PasswordResetToken.IsPresent != u.PasswordResetExpiresAt.IsPresent {
		return e.NewInvalidStateError(
			fmt.Sprintf("password reset token and its expiry must be set together for user %s", u.ID),
		)
	}
	return nil
}

// HasValidPasswordResetToken reports whether token is the user's active reset
// token and its validity window ends strictly after now.
func (u *User) HasValidPasswordResetToken(token PasswordResetToken, now time.Time) bool {
	if !u.PasswordResetToken.IsPresent || !u.PasswordResetExpiresAt.IsPresent {
		return false
	}
	return u.PasswordResetToken.Value == token && u.PasswordResetExpiresAt.Value.After(now)
}

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	ValidatePassword(password RawPassword, hash PasswordHash) bool
}
