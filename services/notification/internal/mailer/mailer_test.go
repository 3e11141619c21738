package mailer

import (
	"bytes"
	"context"
	"testing"

	"donorseeker/pkg/config"
	"donorseeker/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WithoutHostLogsOnly(t *testing.T) {
	sender := New(&config.Config{}, logger.NewWithZap(zap.NewNop()))

	_, ok := sender.(*logSender)
	require.True(t, ok)
	assert.NoError(t, sender.Send(context.Background(), "a@example.com", "hi", "body"))
}

func TestNew_SMTP(t *testing.T) {
	sender := New(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 465, SMTPSender: "bot@example.com"},
		logger.NewWithZap(zap.NewNop()))

	s, ok := sender.(*smtpSender)
	require.True(t, ok)
	assert.True(t, s.dialer.SSL)
	assert.Equal(t, "bot@example.com", s.from)
}

func TestSend_CancelledContext(t *testing.T) {
	sender := New(&config.Config{SMTPHost: "127.0.0.1", SMTPPort: 1, SMTPSender: "bot@example.com"},
		logger.NewWithZap(zap.NewNop()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sender.Send(ctx, "a@example.com", "hi", "body")
	assert.Error(t, err)
}

func TestSend_NoRecipient(t *testing.T) {
	sender := New(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587}, logger.NewWithZap(zap.NewNop()))

	assert.Error(t, sender.Send(context.Background(), "", "hi", "body"))
}

func TestNewMessage(t *testing.T) {
	m := newMessage("bot@example.com", "seeker@example.com", "Your request was accepted", "Contact the donor")

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "From: bot@example.com")
	assert.Contains(t, raw, "To: seeker@example.com")
	assert.Contains(t, raw, "Subject: Your request was accepted")
	assert.Contains(t, raw, "Contact the donor")
}
