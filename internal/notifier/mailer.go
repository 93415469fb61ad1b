package notifier

import (
	"fmt"
	"log/slog"

	"family-booking/internal/pkg/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is one rendered notification, ready to hand to a Mailer.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

type Mailer interface {
	Send(msg Message) error
}

type SendGridMailer struct {
	apiKey     string
	senderName string
	sender     string
}

func NewSendGridMailer(cfg config.MailConfig) *SendGridMailer {
	return &SendGridMailer{
		apiKey:     cfg.SendGridAPIKey,
		senderName: cfg.SenderName,
		sender:     cfg.SenderEmail,
	}
}

func (m *SendGridMailer) Send(msg Message) error {
	if m.apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not configured")
	}

	from := mail.NewEmail(m.senderName, m.sender)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	email := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(email)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}

	return nil
}

// LogMailer replaces SendGrid in development and tests: deliveries are
// only logged.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(msg Message) error {
	slog.Info("mail delivery skipped (no mailer configured)",
		"to", msg.ToEmail,
		"subject", msg.Subject)
	return nil
}

// NewMailer picks the SendGrid client when an API key is configured and
// the logging stand-in otherwise.
func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.SendGridAPIKey == "" {
		return NewLogMailer()
	}
	return NewSendGridMailer(cfg)
}
