// Package mailer provides the SMTP implementation of the reminder
// Mailer interface.
package mailer

import (
	"gopkg.in/gomail.v2"
)

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTP(host string, port int, username, password, from, fromName string) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: fromName,
	}
}

// Send delivers one message with a text body and an optional HTML
// alternative.
func (m *SMTPMailer) Send(toEmail, toName, subject, htmlBody, textBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetAddressHeader("To", toEmail, toName)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	if htmlBody != "" {
		msg.AddAlternative("text/html", htmlBody)
	}
	return m.dialer.DialAndSend(msg)
}
