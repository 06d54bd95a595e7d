package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
)

var ErrNoRecipient = errors.New("email recipient is empty")

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Sender sends plain text reminders over SMTP.
type Sender struct {
	host     string
	port     string
	from     string
	password string
	subject  string
	send     SendFunc
}

func NewSender(host, port, from, password string) *Sender {
	return &Sender{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		subject:  "Habit reminder",
		send:     smtp.SendMail,
	}
}

// WithSendFunc replaces the SMTP transport.
func (s *Sender) WithSendFunc(fn SendFunc) *Sender {
	s.send = fn
	return s
}

// Send sends a plain text email to the given address.
func (s *Sender) Send(ctx context.Context, to, body string) error {
	if to == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + s.subject + "\r\n" +
		"\r\n" + body + "\r\n")

	address := s.host + ":" + s.port

	err := s.send(address, auth, s.from, []string{to}, msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
