package email

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"ovidot/internal/core/domain/user"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	inputs      []*ses.SendTemplatedEmailInput
	returnError bool
}

func (f *fakeSES) SendTemplatedEmail(
	ctx context.Context,
	params *ses.SendTemplatedEmailInput,
	optFns ...func(*ses.Options),
) (*ses.SendTemplatedEmailOutput, error) {
	if f.returnError {
		return nil, errors.New("ses is down")
	}
	f.inputs = append(f.inputs, params)
	return &ses.SendTemplatedEmailOutput{}, nil
}

func TestSESSendsTemplatedEmail(t *testing.T) {
	// Setup ---
	client := &fakeSES{}
	sender := &SESSender{ses: client, sender: "noreply@example.com", passwordResetTemplate: "reset"}
	u := user.User{ID: "1", Email: "john@example.com"}

	// Exercise ---
	err := sender.SendPasswordResetLink(context.Background(), u, "http://localhost/reset/abc")

	// Verify ---
	require.NoError(t, err)
	require.Len(t, client.inputs, 1)
	input := client.inputs[0]
	require.Equal(t, "noreply@example.com", *input.Source)
	require.Equal(t, []string{"john@example.com"}, input.Destination.ToAddresses)
	require.Equal(t, "reset", *input.Template)
	require.JSONEq(t, `{"passwordResetUrl":"http://localhost/reset/abc"}`, *input.TemplateData)
}

func TestSESFailure(t *testing.T) {
	// Setup ---
	sender := &SESSender{ses: &fakeSES{returnError: true}, sender: "noreply@example.com", passwordResetTemplate: "reset"}

	// Exercise ---
	err := sender.SendPasswordResetLink(context.Background(), user.User{Email: "john@example.com"}, "link")

	// Verify ---
	require.Error(t, err)
}

func TestSESRequiresEmail(t *testing.T) {
	client := &fakeSES{}
	sender := &SESSender{ses: client}

	err := sender.SendPasswordResetLink(context.Background(), user.User{ID: "1"}, "link")

	require.Error(t, err)
	require.Empty(t, client.inputs)
}

func TestPasswordResetMessage(t *testing.T) {
	// Setup ---
	u := user.User{ID: "1", Email: "john@example.com"}

	// Exercise ---
	message, err := newPasswordResetMessage("noreply@example.com", u, "http://localhost/reset/abc")
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = message.WriteTo(&buf)

	// Verify ---
	require.NoError(t, err)
	raw := buf.String()
	require.Contains(t, raw, "Subject: Password Reset")
	require.Contains(t, raw, "john@example.com")
	require.Contains(t, raw, "http://localhost/reset/abc")
}

func TestPasswordResetMessageInvalidSender(t *testing.T) {
	_, err := newPasswordResetMessage("not an address", user.User{Email: "john@example.com"}, "link")

	require.Error(t, err)
}
