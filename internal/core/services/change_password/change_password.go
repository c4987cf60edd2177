package changepassword

import (
	"context"
	"errors"
	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/logging"
	"ovidot/internal/core/domain/user"
	"ovidot/internal/core/services/auth"
	"time"
)

const PASSWORD_CHANGED_MESSAGE = "Password changed"

type Input struct {
	UserID          user.ID
	CurrentPassword user.RawPassword
	NewPassword     user.RawPassword
}

func (i Input) WithAuthenticatedUserID(id user.ID) auth.Input {
	i.UserID = id
	return i
}

type Result struct {
	Notification user.Notification
}

type service struct {
	log              logging.Logger
	userRepository   user.UserRepository
	passwordHasher   user.PasswordHasher
	publisher        user.NotificationPublisher
	now              func() time.Time
	maxNotifications int
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	publisher user.NotificationPublisher,
	now func() time.Time,
	maxNotifications int,
) *service {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if publisher == nil {
		panic(e.NewNilArgumentError("publisher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if maxNotifications < 1 {
		maxNotifications = user.MaxNotifications
	}
	return &service{
		log:              log,
		userRepository:   userRepository,
		passwordHasher:   passwordHasher,
		publisher:        publisher,
		now:              now,
		maxNotifications: maxNotifications,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.NewPassword == "" {
		return result, user.ErrPasswordEmpty
	}
	if input.CurrentPassword == input.NewPassword {
		return result, user.ErrPasswordsMustDiffer
	}

	u, err := s.userRepository.GetByID(ctx, input.UserID)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "User not found for password change.", logging.Entry("userID", input.UserID))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password change.",
			logging.Entry("userID", input.UserID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if !s.passwordHasher.ValidatePassword(input.CurrentPassword, u.PasswordHash) {
		return result, user.ErrCurrentPasswordIncorrect
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

	notification := user.NewNotification(user.NotificationTypeUserUpdated, PASSWORD_CHANGED_MESSAGE, s.now())
	err = s.userRepository.ChangePassword(ctx, user.ChangePasswordInput{
		ID:                  u.ID,
		CurrentPasswordHash: u.PasswordHash,
		NewPasswordHash:     newPasswordHash,
		Notifications:       user.AppendNotification(u.Notifications, notification, s.maxNotifications),
	})
	if errors.Is(err, user.ErrCurrentPasswordIncorrect) || errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Password was changed concurrently.", logging.Entry("userID", u.ID))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not change user password.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if err := s.publisher.PublishNotification(ctx, u.ID, notification); err != nil {
		s.log.Warning(
			ctx,
			"Could not publish password change notification.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
	}

	s.log.Info(ctx, "Password has been changed.", logging.Entry("userID", u.ID))
	result.Notification = notification
	return result, nil
}
