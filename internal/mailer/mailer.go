// Package mailer sends messages through an SMTP relay with gomail.
package mailer

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// Attachment is a file sent with a message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is a plain text e-mail.
type Message struct {
	FromName    string
	FromAddress string
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Credentials authenticate against the relay; for Gmail an app password.
type Credentials struct {
	Username string
	Password string
}

// Sender delivers one message. It does not retry.
type Sender interface {
	Send(ctx context.Context, creds Credentials, msg Message) error
}

// SMTPSender dials the relay for every message.
type SMTPSender struct {
	Host string
	Port int
}

func NewSMTPSender(host string, port int) *SMTPSender {
	return &SMTPSender{Host: host, Port: port}
}

// Send builds msg and hands it to the relay. The context is only checked
// before dialing; gomail has no cancellation.
func (s *SMTPSender) Send(ctx context.Context, creds Credentials, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d := gomail.NewDialer(s.Host, s.Port, creds.Username, creds.Password)
	if err := d.DialAndSend(Build(msg)); err != nil {
		return fmt.Errorf("smtp %s:%d: %w", s.Host, s.Port, err)
	}
	return nil
}

// Build converts msg into a gomail message.
func Build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", msg.FromAddress, msg.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	for _, a := range msg.Attachments {
		data := a.Data
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		m.Attach(a.Name,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {ct}}),
		)
	}
	return m
}
