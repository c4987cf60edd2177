package email

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const (
	AWS_MAX_ATTEMPTS      = 3
	AWS_MAX_BACKOFF_DELAY = 5 * time.Second
)

const passwordResetTemplateHTML = `<p>Hello,</p>` +
	`<p>A password reset was requested for your account. ` +
	`Follow the link below to choose a new password. The link expires soon and works once.</p>` +
	`<p><a href="{{passwordResetUrl}}">Reset password</a></p>` +
	`<p>If you did not request this, you can ignore this email.</p>`

const passwordResetTemplateText = "A password reset was requested for your account.\n\n" +
	"Open this link to choose a new password: {{passwordResetUrl}}\n\n" +
	"If you did not request this, you can ignore this email.\n"

func NewAWSConfig(ctx context.Context, region string, accessKey string, secretKey string) (aws.Config, error) {
	return awsConfig.LoadDefaultConfig(
		ctx,
		awsConfig.WithRegion(region),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), AWS_MAX_BACKOFF_DELAY),
				AWS_MAX_ATTEMPTS,
			)
		}),
	)
}

type sesTemplateAPI interface {
	CreateTemplate(
		ctx context.Context,
		params *ses.CreateTemplateInput,
		optFns ...func(*ses.Options),
	) (*ses.CreateTemplateOutput, error)
	DeleteTemplate(
		ctx context.Context,
		params *ses.DeleteTemplateInput,
		optFns ...func(*ses.Options),
	) (*ses.DeleteTemplateOutput, error)
}

// SESTemplates manages the SES template that SESSender renders.
type SESTemplates struct {
	ses sesTemplateAPI
}

func NewSESTemplates(awsConfig aws.Config) *SESTemplates {
	return &SESTemplates{ses: ses.NewFromConfig(awsConfig)}
}

func (t *SESTemplates) CreatePasswordResetTemplate(ctx context.Context, name string) error {
	_, err := t.ses.CreateTemplate(ctx, &ses.CreateTemplateInput{
		Template: &types.Template{
			TemplateName: aws.String(name),
			SubjectPart:  aws.String(PASSWORD_RESET_SUBJECT),
			HtmlPart:     aws.String(passwordResetTemplateHTML),
			TextPart:     aws.String(passwordResetTemplateText),
		},
	})
	if err != nil {
		return fmt.Errorf("could not create SES template %s: %w", name, err)
	}
	return nil
}

func (t *SESTemplates) DeleteTemplate(ctx context.Context, name string) error {
	_, err := t.ses.DeleteTemplate(ctx, &ses.DeleteTemplateInput{TemplateName: aws.String(name)})
	if err != nil {
		return fmt.Errorf("could not delete SES template %s: %w", name, err)
	}
	return nil
}
