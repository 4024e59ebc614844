package notify

import (
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/campus-it/helpdesk/internal/config"
)

// Mailer sends a plain-text message to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

type disabledMailer struct {
	logger *zap.Logger
}

// NewMailer returns an SMTP-backed mailer, or a no-op one when the relay
// settings are incomplete.
func NewMailer(cfg config.SMTPConfig, from string, logger *zap.Logger) Mailer {
	if !cfg.Configured() {
		logger.Info("smtp not configured; outbound mail disabled")
		return &disabledMailer{logger: logger}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

func (m *disabledMailer) Send(to, subject, body string) error {
	m.logger.Debug("mail skipped, smtp not configured",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
