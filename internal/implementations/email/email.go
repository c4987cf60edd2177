package email

import (
	"context"
	"encoding/json"
	"errors"

	"ovidot/internal/core/domain/user"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const PASSWORD_RESET_SUBJECT = "Password Reset"

type sesAPI interface {
	SendTemplatedEmail(
		ctx context.Context,
		params *ses.SendTemplatedEmailInput,
		optFns ...func(*ses.Options),
	) (*ses.SendTemplatedEmailOutput, error)
}

// SESSender delivers reset links through an Amazon SES template that takes a
// single passwordResetUrl parameter.
type SESSender struct {
	ses sesAPI
	// This address must be verified with Amazon SES.
	sender                string
	passwordResetTemplate string
}

func NewSESSender(awsConfig aws.Config, sender string, passwordResetTemplate string) *SESSender {
	return &SESSender{
		ses:                   ses.NewFromConfig(awsConfig),
		sender:                sender,
		passwordResetTemplate: passwordResetTemplate,
	}
}

func (s *SESSender) SendPasswordResetLink(ctx context.Context, u user.User, link string) error {
	if u.Email == "" {
		return errors.New("user email is not defined")
	}

	templateParamsBytes, err := json.Marshal(passwordResetTemplateParams{PasswordResetUrl: link})
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(u.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.passwordResetTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

type passwordResetTemplateParams struct {
	PasswordResetUrl string `json:"passwordResetUrl"`
}
