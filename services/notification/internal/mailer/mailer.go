package mailer

import (
	"context"
	"crypto/tls"
	"fmt"

	"donorseeker/pkg/config"
	"donorseeker/pkg/logger"

	"gopkg.in/gomail.v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpSender struct {
	from   string
	dialer *gomail.Dialer
	logger *logger.Logger
}

// New returns an SMTP sender, or a sender that only logs when no SMTP host
// is configured.
func New(cfg *config.Config, log *logger.Logger) Sender {
	if cfg.SMTPHost == "" {
		log.Warn("[MAILER] SMTP_HOST not set, emails are only logged")
		return &logSender{logger: log}
	}

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	dialer.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	if cfg.SMTPPort == 465 {
		dialer.SSL = true
	}

	return &smtpSender{from: cfg.SMTPSender, dialer: dialer, logger: log}
}

func newMessage(from, to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

// Send gives up when ctx is done; the dial itself keeps running in the
// background until gomail returns.
func (s *smtpSender) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("no recipient")
	}

	m := newMessage(s.from, to, subject, body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("email to %s cancelled: %w", to, ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", to, err)
		}
	}

	s.logger.Info("[MAILER] Email sent to %s, subject: %s", to, subject)
	return nil
}

type logSender struct {
	logger *logger.Logger
}

func (s *logSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("[MAILER] (not sent) to=%s subject=%q body=%q", to, subject, body)
	return nil
}
