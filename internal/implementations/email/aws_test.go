package email

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/require"
)

type fakeSESTemplates struct {
	created     []*ses.CreateTemplateInput
	deleted     []string
	returnError bool
}

func (f *fakeSESTemplates) CreateTemplate(
	ctx context.Context,
	params *ses.CreateTemplateInput,
	optFns ...func(*ses.Options),
) (*ses.CreateTemplateOutput, error) {
	if f.returnError {
		return nil, errors.New("ses is down")
	}
	f.created = append(f.created, params)
	return &ses.CreateTemplateOutput{}, nil
}

func (f *fakeSESTemplates) DeleteTemplate(
	ctx context.Context,
	params *ses.DeleteTemplateInput,
	optFns ...func(*ses.Options),
) (*ses.DeleteTemplateOutput, error) {
	if f.returnError {
		return nil, errors.New("ses is down")
	}
	f.deleted = append(f.deleted, *params.TemplateName)
	return &ses.DeleteTemplateOutput{}, nil
}

func TestCreatePasswordResetTemplate(t *testing.T) {
	client := &fakeSESTemplates{}
	templates := &SESTemplates{ses: client}

	err := templates.CreatePasswordResetTemplate(context.Background(), "password-reset")

	require.NoError(t, err)
	require.Len(t, client.created, 1)
	template := client.created[0].Template
	require.Equal(t, "password-reset", *template.TemplateName)
	require.Equal(t, PASSWORD_RESET_SUBJECT, *template.SubjectPart)
	require.Contains(t, *template.HtmlPart, "{{passwordResetUrl}}")
	require.Contains(t, *template.TextPart, "{{passwordResetUrl}}")
}

func TestDeleteTemplate(t *testing.T) {
	client := &fakeSESTemplates{}
	templates := &SESTemplates{ses: client}

	require.NoError(t, templates.DeleteTemplate(context.Background(), "password-reset"))
	require.Equal(t, []string{"password-reset"}, client.deleted)

	client.returnError = true
	require.Error(t, templates.DeleteTemplate(context.Background(), "password-reset"))
}
