// Package mailer sends transactional notification email over SMTP.
package mailer

import (
	"github.com/stocknexus/stocknexus/config"
	"gopkg.in/gomail.v2"
)

// SMTPMailer delivers HTML mail through the configured SMTP relay.
type SMTPMailer struct {
	cfg config.SmtpConfig
}

func NewSMTPMailer(cfg config.SmtpConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers a single HTML message. Callers treat failures as
// best-effort: a lost notification never fails the parent operation.
func (m *SMTPMailer) Send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return d.DialAndSend(msg)
}
