package service

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/spec-kit/asset-service/internal/config"
)

// Mailer sends HTML email. Best-effort: unconfigured host means no-op and
// send failures are logged, never returned to the caller.
type Mailer interface {
	Send(to, subject, htmlBody string)
}

type smtpMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer builds a gomail-backed mailer.
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) Mailer {
	return &smtpMailer{cfg: cfg, logger: logger}
}

func (m *smtpMailer) Send(to, subject, htmlBody string) {
	if m.cfg.Host == "" {
		m.logger.Debug("smtp not configured; dropping email",
			zap.String("to", to),
			zap.String("subject", subject))
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		m.logger.Warn("email send failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
	}
}
