// Package mail delivers password-reset messages.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/logging"
	"github.com/mailgun/mailgun-go/v5"
)

type Sender interface {
	Send(ctx context.Context, to, subject, text string) error
}

// MailgunSender sends through the Mailgun API.
type MailgunSender struct {
	client mailgun.Mailgun
	domain string
	from   string
}

func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{client: mailgun.NewMailgun(apiKey), domain: domain, from: from}
}

func (s *MailgunSender) Send(ctx context.Context, to, subject, text string) error {
	message := mailgun.NewMessage(s.domain, s.from, subject, text, to)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.client.Send(ctx, message); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	log logging.Logger
}

func NewLogSender(log logging.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, to, subject, text string) error {
	s.log.Info(ctx, "mail not delivered, mailgun is not configured", "to", to, "subject", subject, "body", text)
	return nil
}

// NewSender picks Mailgun when both domain and key are set.
func NewSender(domain, apiKey, from string, log logging.Logger) Sender {
	if domain != "" && apiKey != "" {
		return NewMailgunSender(domain, apiKey, from)
	}
	return NewLogSender(log)
}
