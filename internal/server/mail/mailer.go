package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"filedrop/internal/server/config"
)

// Message is one outbound email. HTML is optional; when set it is attached as
// an alternative body.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages. The SMTP implementation below is swapped for a
// fake in service tests.
type Sender interface {
	Send(msg *Message) error
}

// SMTPSender delivers mail over authenticated SMTP.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a sender from the configured SMTP credentials.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPassword),
		from:   cfg.EmailUser,
	}
}

// Send delivers a single message.
func (s *SMTPSender) Send(msg *Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}
