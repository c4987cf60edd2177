package verifypasswordresettoken

import (
	"context"
	"errors"
	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/logging"
	"ovidot/internal/core/domain/user"
	"time"
)

type Input struct {
	Token user.PasswordResetToken
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	blacklist      user.PasswordResetTokenBlacklist
	now            func() time.Time
	failClosed     bool
}

// New builds a read-only token check. With failClosed set, a blacklist
// lookup error rejects the request instead of falling through to the
// user record.
func New(
	log logging.Logger,
	userRepository user.UserRepository,
	blacklist user.PasswordResetTokenBlacklist,
	now func() time.Time,
	failClosed bool,
) *service {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if blacklist == nil {
		panic(e.NewNilArgumentError("blacklist"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		blacklist:      blacklist,
		now:            now,
		failClosed:     failClosed,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Token == "" {
		return result, user.ErrInvalidPasswordResetToken
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, input.Token)
	if err != nil {
		if s.failClosed {
			s.log.Error(ctx, "Could not check password reset token blacklist.", logging.Entry("err", err))
			return result, err
		}
		s.log.Warning(
			ctx,
			"Could not check password reset token blacklist, relying on user record.",
			logging.Entry("err", err),
		)
	}
	if blacklisted {
		s.log.Info(ctx, "Blacklisted password reset token used.")
		return result, user.ErrInvalidPasswordResetToken
	}

	u, err := s.userRepository.GetByPasswordResetToken(ctx, input.Token, s.now())
	if errors.Is(err, user.ErrInvalidPasswordResetToken) {
		return result, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not get user by password reset token.", logging.Entry("err", err))
		return result, err
	}

	result.User = u
	return result, nil
}
