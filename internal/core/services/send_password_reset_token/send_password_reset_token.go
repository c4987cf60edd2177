package sendpasswordresettoken

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	c "ovidot/internal/core/domain/common"
	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/logging"
	"ovidot/internal/core/domain/user"
	"strings"
	"time"
)

const MAX_TOKEN_GENERATION_ATTEMPTS = 3

type Input struct {
	Email   c.Email
	BaseURL string
}

type Result struct {
	Token user.PasswordResetToken
	Link  string
}

type Settings struct {
	ValidDuration time.Duration
	SendTimeout   time.Duration
	// Empty means any absolute http(s) URL is accepted.
	AllowedBaseURLs []string
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	tokenGenerator user.PasswordResetTokenGenerator
	linkSender     user.PasswordResetLinkSender
	now            func() time.Time
	settings       Settings
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	tokenGenerator user.PasswordResetTokenGenerator,
	linkSender user.PasswordResetLinkSender,
	now func() time.Time,
	settings Settings,
) *service {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if tokenGenerator == nil {
		panic(e.NewNilArgumentError("tokenGenerator"))
	}
	if linkSender == nil {
		panic(e.NewNilArgumentError("linkSender"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if settings.ValidDuration <= 0 {
		panic(e.NewInvalidStateError("password reset valid duration must be positive"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		tokenGenerator: tokenGenerator,
		linkSender:     linkSender,
		now:            now,
		settings:       settings,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	baseURL, err := s.parseBaseURL(input.BaseURL)
	if err != nil {
		return result, err
	}

	u, err := s.userRepository.GetByEmail(ctx, input.Email)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Password reset requested for unknown email.", logging.Entry("email", input.Email))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}

	expiresAt := s.now().Add(s.settings.ValidDuration)
	token, err := s.issueToken(ctx, u.ID, expiresAt)
	if err != nil {
		return result, err
	}
	u.PasswordResetToken = c.NewOptional(token, true)
	u.PasswordResetExpiresAt = c.NewOptional(expiresAt, true)

	result.Token = token
	result.Link = baseURL.JoinPath(string(token)).String()

	sendCtx := ctx
	if s.settings.SendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.settings.SendTimeout)
		defer cancel()
	}
	if err := s.linkSender.SendPasswordResetLink(sendCtx, u, result.Link); err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset link.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, fmt.Errorf("%w: %v", user.ErrPasswordResetLinkNotSent, err)
	}

	s.log.Info(
		ctx,
		"Password reset link has been sent.",
		logging.Entry("userID", u.ID),
		logging.Entry("expiresAt", expiresAt),
	)
	return result, nil
}

func (s *service) issueToken(
	ctx context.Context,
	userID user.ID,
	expiresAt time.Time,
) (user.PasswordResetToken, error) {
	for attempt := 1; ; attempt++ {
		token, err := s.tokenGenerator.GeneratePasswordResetToken()
		if err != nil {
			s.log.Error(ctx, "Could not generate password reset token.", logging.Entry("err", err))
			return token, err
		}

		err = s.userRepository.SetPasswordResetToken(ctx, user.SetPasswordResetTokenInput{
			ID:        userID,
			Token:     token,
			ExpiresAt: expiresAt,
		})
		if errors.Is(err, user.ErrPasswordResetTokenCollision) && attempt < MAX_TOKEN_GENERATION_ATTEMPTS {
			s.log.Warning(
				ctx,
				"Password reset token collision, generating a new one.",
				logging.Entry("userID", userID),
				logging.Entry("attempt", attempt),
			)
			continue
		}
		if err != nil {
			s.log.Error(
				ctx,
				"Could not save password reset token.",
				logging.Entry("userID", userID),
				logging.Entry("err", err),
			)
			return token, err
		}
		return token, nil
	}
}

func (s *service) parseBaseURL(raw string) (*url.URL, error) {
	baseURL, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || baseURL.Host == "" || (baseURL.Scheme != "http" && baseURL.Scheme != "https") {
		return nil, user.ErrInvalidPasswordResetBaseURL
	}
	if len(s.settings.AllowedBaseURLs) == 0 {
		return baseURL, nil
	}
	for _, rawAllowed := range s.settings.AllowedBaseURLs {
		allowed, err := url.Parse(strings.TrimSpace(rawAllowed))
		if err != nil {
			continue
		}
		if allowed.Scheme == baseURL.Scheme &&
			strings.EqualFold(allowed.Host, baseURL.Host) &&
			strings.HasPrefix(baseURL.Path, allowed.Path) {
			return baseURL, nil
		}
	}
	return nil, user.ErrInvalidPasswordResetBaseURL
}
