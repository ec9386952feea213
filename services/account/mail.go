package account

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

type SmtpConfig struct {
	Server       string
	Port         int
	EmailAddress string
	Password     string
}

// Mailer abstracts outgoing account mail so tests can record instead
// of dialing an SMTP server.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
	Configured() bool
}

type SmtpMailer struct {
	config SmtpConfig
}

func NewSmtpMailer(config SmtpConfig) SmtpMailer {
	return SmtpMailer{config: config}
}

func (m SmtpMailer) Configured() bool {
	return m.config.Server != "" && m.config.EmailAddress != ""
}

func (m SmtpMailer) Send(ctx context.Context, to, subject, body string) error {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Parallel Scriptures <%s>", m.config.EmailAddress)
	mail.To = []string{to}
	mail.Subject = subject
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", m.config.Server, m.config.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", m.config.EmailAddress, m.config.Password, m.config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	return err
}

// LogMailer is the development fallback when SMTP is not configured:
// the message lands in the logs instead of an inbox.
type LogMailer struct{}

func (LogMailer) Configured() bool { return false }

func (LogMailer) Send(ctx context.Context, to, subject, body string) error {
	slog.WarnContext(ctx, "smtp not configured, would send email",
		"to", to, "subject", subject, "body", body)
	return nil
}
