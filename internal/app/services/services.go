package services

import (
	"ovidot/internal/app/deps"
	"ovidot/internal/core/services"
	"ovidot/internal/core/services/auth"
	changepassword "ovidot/internal/core/services/change_password"
	resetpassword "ovidot/internal/core/services/reset_password"
	sendpasswordresettoken "ovidot/internal/core/services/send_password_reset_token"
	verifypasswordresettoken "ovidot/internal/core/services/verify_password_reset_token"
)

type Services struct {
	SendPasswordResetToken   services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	VerifyPasswordResetToken services.Service[verifypasswordresettoken.Input, verifypasswordresettoken.Result]
	ResetPassword            services.Service[resetpassword.Input, resetpassword.Result]
	ChangePassword           services.Service[changepassword.Input, changepassword.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SendPasswordResetToken = sendpasswordresettoken.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordResetTokenGenerator,
		deps.PasswordResetLinkSender,
		deps.Now,
		sendpasswordresettoken.Settings{
			ValidDuration:   deps.Config.PasswordResetValidDuration,
			SendTimeout:     deps.Config.MailTimeout,
			AllowedBaseURLs: deps.Config.PasswordResetAllowedBaseURLs,
		},
	)
	s.VerifyPasswordResetToken = verifypasswordresettoken.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordResetTokenBlacklist,
		deps.Now,
		deps.Config.BlacklistFailClosed,
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		s.VerifyPasswordResetToken,
		deps.UserRepository,
		deps.PasswordHasher,
		deps.PasswordResetTokenBlacklist,
		deps.Now,
	)
	s.ChangePassword = auth.WithAuthentication[changepassword.Input, changepassword.Result](
		changepassword.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordHasher,
			deps.NotificationPublisher,
			deps.Now,
			deps.Config.MaxNotifications,
		),
	)

	return s
}
