package user

import (
	e "ovidot/internal/core/domain/errors"
)

var (
	ErrUserDoesNotExist            = e.New(e.KindNotFound, "user does not exist")
	ErrUnauthenticated             = e.New(e.KindAuth, "invalid authentication token")
	ErrInvalidPasswordResetToken   = e.New(e.KindAuth, "invalid or expired token")
	ErrPasswordResetTokenCollision = e.New(e.KindInternal, "password reset token already exists")
	ErrPasswordResetLinkNotSent    = e.New(e.KindDependency, "failed to send email")
	ErrInvalidPasswordResetBaseURL = e.New(e.KindValidation, "invalid password reset url")
	ErrPasswordsMustDiffer         = e.New(e.KindValidation, "please provide a new password")
	ErrCurrentPasswordIncorrect    = e.New(e.KindValidation, "current password is incorrect")
	ErrPasswordEmpty               = e.New(e.KindValidation, "password must not be empty")
)
