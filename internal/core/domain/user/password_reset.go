package user

import (
	"context"
)

type PasswordResetToken string

type PasswordResetTokenGenerator interface {
	GeneratePasswordResetToken() (PasswordResetToken, error)
}

// PasswordResetLinkSender delivers a reset link to the user, typically by e-mail.
type PasswordResetLinkSender interface {
	SendPasswordResetLink(ctx context.Context, u User, link string) error
}

// PasswordResetTokenBlacklist holds token values that must never be honored again.
type PasswordResetTokenBlacklist interface {
	Invalidate(ctx context.Context, token PasswordResetToken) error
	IsBlacklisted(ctx context.Context, token PasswordResetToken) (bool, error)
}
