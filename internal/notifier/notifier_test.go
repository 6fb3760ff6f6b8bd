// internal/notifier/notifier_test.go
package notifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-intake/internal/common/config"
	"careers-intake/internal/common/errors"
	"careers-intake/internal/common/logger"
)

func testMessage() Message {
	return Message{
		From:     "careers@example.com",
		To:       "hr@example.com",
		Subject:  "New Application #1: Ana Silva",
		HTMLBody: "<h2>New Application Received</h2><p><strong>ID:</strong> #1</p>",
		Attachment: Attachment{
			Filename: "cv.pdf",
			Content:  []byte("%PDF-1.4 fake resume content"),
		},
	}
}

func TestBuildMIMEMessage_Structure(t *testing.T) {
	payload := string(buildMIMEMessage(testMessage()))

	assert.Contains(t, payload, "From: careers@example.com\r\n")
	assert.Contains(t, payload, "To: hr@example.com\r\n")
	assert.Contains(t, payload, "Subject: New Application #1: Ana Silva\r\n")
	assert.Contains(t, payload, "MIME-Version: 1.0\r\n")
	assert.Contains(t, payload, "Content-Type: multipart/mixed; boundary=")
	assert.Contains(t, payload, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, payload, `Content-Disposition: attachment; filename="cv.pdf"`)
	assert.Contains(t, payload, "Content-Type: application/pdf")

	// The attachment decodes back to the original bytes.
	encoded := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake resume content"))
	assert.Contains(t, strings.ReplaceAll(payload, "\r\n", ""), encoded)
}

func TestBuildMIMEMessage_ClosesBoundary(t *testing.T) {
	payload := string(buildMIMEMessage(testMessage()))

	start := strings.Index(payload, "boundary=\"")
	require.Greater(t, start, 0)
	rest := payload[start+len("boundary=\""):]
	boundary := rest[:strings.Index(rest, "\"")]

	assert.Equal(t, 2, strings.Count(payload, "--"+boundary+"\r\n"))
	assert.Contains(t, payload, "--"+boundary+"--\r\n")
}

func TestBuildMIMEMessage_UnknownExtensionFallsBack(t *testing.T) {
	msg := testMessage()
	msg.Attachment.Filename = "resume.bin"

	payload := string(buildMIMEMessage(msg))
	assert.Contains(t, payload, "Content-Type: application/octet-stream")
}

func TestWrapBase64_FoldsLongLines(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("x"), 600))
	wrapped := wrapBase64(encoded)

	for _, line := range strings.Split(wrapped, "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}
	assert.Equal(t, encoded, strings.ReplaceAll(wrapped, "\r\n", ""))
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"hr@example.com", "a.b+c@sub.example.org"}
	invalid := []string{"", "plain", "@example.com", "user@", "user@nodot"}

	for _, addr := range valid {
		assert.True(t, isValidEmail(addr), addr)
	}
	for _, addr := range invalid {
		assert.False(t, isValidEmail(addr), addr)
	}
}

// ==========================
// SES notifier
// ==========================

type fakeSES struct {
	input *ses.SendRawEmailInput
	err   error
}

func (f *fakeSES) SendRawEmail(_ context.Context, params *ses.SendRawEmailInput, _ ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	id := "fake-message-id"
	return &ses.SendRawEmailOutput{MessageId: &id}, nil
}

func sesTestConfig() config.NotificationConfig {
	cfg := config.NotificationConfig{
		Provider:  "ses",
		FromEmail: "careers@example.com",
		Recipient: "hr@example.com",
	}
	cfg.AWS.Region = "us-east-1"
	return cfg
}

func TestSESNotifier_Send_Success(t *testing.T) {
	fake := &fakeSES{}
	n := NewSESNotifierWithClient(fake, sesTestConfig(), logger.NewTestLogger(t))

	err := n.Send(context.Background(), testMessage())

	require.NoError(t, err)
	require.NotNil(t, fake.input)
	assert.Equal(t, []string{"hr@example.com"}, fake.input.Destinations)
	assert.Contains(t, string(fake.input.RawMessage.Data), "Subject: New Application #1: Ana Silva")
}

func TestSESNotifier_Send_TransportFailure(t *testing.T) {
	fake := &fakeSES{err: assert.AnError}
	n := NewSESNotifierWithClient(fake, sesTestConfig(), logger.NewNoOpLogger())

	err := n.Send(context.Background(), testMessage())

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.KindDelivery, stdErr.Kind)
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
}

func TestSESNotifier_Send_RejectsInvalidRecipient(t *testing.T) {
	fake := &fakeSES{}
	n := NewSESNotifierWithClient(fake, sesTestConfig(), logger.NewNoOpLogger())

	msg := testMessage()
	msg.To = "not-an-address"

	err := n.Send(context.Background(), msg)

	require.Error(t, err)
	assert.Nil(t, fake.input, "no SES call should be made for an invalid recipient")
}

// ==========================
// SMTP notifier
// ==========================

func TestSMTPNotifier_Send_RejectsInvalidAddresses(t *testing.T) {
	cfg := config.NotificationConfig{Provider: "smtp"}
	cfg.SMTP.Host = "localhost"
	cfg.SMTP.Port = 2525
	n := NewSMTPNotifier(cfg, logger.NewNoOpLogger())

	msg := testMessage()
	msg.To = "broken"

	err := n.Send(context.Background(), msg)

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.KindDelivery, stdErr.Kind)
}

func TestSMTPNotifier_Send_CancelledContext(t *testing.T) {
	cfg := config.NotificationConfig{Provider: "smtp"}
	cfg.SMTP.Host = "localhost"
	cfg.SMTP.Port = 2525
	n := NewSMTPNotifier(cfg, logger.NewNoOpLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Send(ctx, testMessage())

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.KindDelivery, stdErr.Kind)
}
