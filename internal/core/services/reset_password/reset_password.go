package resetpassword

import (
	"context"
	"errors"
	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/logging"
	"ovidot/internal/core/domain/user"
	"ovidot/internal/core/services"
	verify "ovidot/internal/core/services/verify_password_reset_token"
	"time"
)

type Input struct {
	Token       user.PasswordResetToken
	NewPassword user.RawPassword
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	verifyToken    services.Service[verify.Input, verify.Result]
	userRepository user.UserRepository
	passwordHasher user.PasswordHasher
	blacklist      user.PasswordResetTokenBlacklist
	now            func() time.Time
}

func New(
	log logging.Logger,
	verifyToken services.Service[verify.Input, verify.Result],
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	blacklist user.PasswordResetTokenBlacklist,
	now func() time.Time,
) *service {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if verifyToken == nil {
		panic(e.NewNilArgumentError("verifyToken"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if blacklist == nil {
		panic(e.NewNilArgumentError("blacklist"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		verifyToken:    verifyToken,
		userRepository: userRepository,
		passwordHasher: passwordHasher,
		blacklist:      blacklist,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Token == "" {
		return result, user.ErrInvalidPasswordResetToken
	}
	if input.NewPassword == "" {
		return result, user.ErrPasswordEmpty
	}

	if _, err := s.verifyToken.Run(ctx, verify.Input{Token: input.Token}); err != nil {
		return result, err
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

	// Only one of several concurrent submissions can match here.
	u, err := s.userRepository.ResetPassword(ctx, user.ResetPasswordInput{
		Token:        input.Token,
		PasswordHash: newPasswordHash,
		At:           s.now(),
	})
	if errors.Is(err, user.ErrInvalidPasswordResetToken) {
		s.log.Info(ctx, "Password reset token was consumed or expired during reset.")
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not reset user password.", logging.Entry("err", err))
		return result, err
	}

	if err := s.blacklist.Invalidate(ctx, input.Token); err != nil {
		s.log.Error(
			ctx,
			"Password has been reset but token could not be blacklisted.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
	}

	s.log.Info(ctx, "New password has been successfully set.", logging.Entry("userID", u.ID))
	result.User = u
	return result, nil
}
