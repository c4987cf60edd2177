package email

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"ovidot/internal/core/domain/user"

	"github.com/wneessen/go-mail"
)

var passwordResetHTML = template.Must(template.New("password_reset").Parse(
	`<p>Hello,</p>` +
		`<p>A password reset was requested for your account. ` +
		`Follow the link below to choose a new password. The link expires soon and works once.</p>` +
		`<p><a href="{{ .Link }}">Reset password</a></p>` +
		`<p>If you did not request this, you can ignore this email.</p>`,
))

const passwordResetText = "A password reset was requested for your account.\n\n" +
	"Open this link to choose a new password: %s\n\n" +
	"If you did not request this, you can ignore this email.\n"

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
	// Plain connections are only used against local test relays.
	Insecure bool
}

type SMTPSender struct {
	config SMTPConfig
}

func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{config: config}
}

func (s *SMTPSender) SendPasswordResetLink(ctx context.Context, u user.User, link string) error {
	message, err := newPasswordResetMessage(s.config.From, u, link)
	if err != nil {
		return err
	}
	client, err := s.newClient()
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("failed to send password reset mail: %w", err)
	}
	return nil
}

func (s *SMTPSender) newClient() (*mail.Client, error) {
	options := []mail.Option{
		mail.WithPort(s.config.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if s.config.Username != "" {
		options = append(
			options,
			mail.WithSMTPAuth(mail.SMTPAuthAutoDiscover),
			mail.WithUsername(s.config.Username),
			mail.WithPassword(s.config.Password),
		)
	}
	if s.config.Timeout > 0 {
		options = append(options, mail.WithTimeout(s.config.Timeout))
	}
	client, err := mail.NewClient(s.config.Host, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	if s.config.Insecure {
		client.SetTLSPolicy(mail.NoTLS)
	}
	return client, nil
}

func newPasswordResetMessage(from string, u user.User, link string) (*mail.Msg, error) {
	if u.Email == "" {
		return nil, errors.New("user email is not defined")
	}
	message := mail.NewMsg()
	if err := message.From(from); err != nil {
		return nil, fmt.Errorf("failed to set sender address: %w", err)
	}
	if err := message.To(string(u.Email)); err != nil {
		return nil, fmt.Errorf("failed to set recipient address: %w", err)
	}
	message.Subject(PASSWORD_RESET_SUBJECT)
	message.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(passwordResetText, link))
	if err := message.AddAlternativeHTMLTemplate(passwordResetHTML, struct{ Link string }{Link: link}); err != nil {
		return nil, fmt.Errorf("failed to render password reset mail: %w", err)
	}
	return message, nil
}
