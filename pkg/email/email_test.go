package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var addr string
	var to []string
	var msg []byte
	s := NewSender("smtp.example.com", "587", "bot@example.com", "pw").
		WithSendFunc(func(a string, _ smtp.Auth, _ string, rcpt []string, m []byte) error {
			addr, to, msg = a, rcpt, m
			return nil
		})

	require.NoError(t, s.Send(context.Background(), "ann@example.com", "It's time to do run."))
	assert.Equal(t, "smtp.example.com:587", addr)
	assert.Equal(t, []string{"ann@example.com"}, to)
	assert.Contains(t, string(msg), "Subject: Habit reminder\r\n")
	assert.Contains(t, string(msg), "It's time to do run.")
}

func TestSendErrors(t *testing.T) {
	boom := errors.New("boom")
	s := NewSender("h", "25", "f", "p").WithSendFunc(func(string, smtp.Auth, string, []string, []byte) error {
		return boom
	})

	assert.ErrorIs(t, s.Send(context.Background(), "a@b.co", "x"), boom)
	assert.ErrorIs(t, s.Send(context.Background(), "", "x"), ErrNoRecipient)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, "a@b.co", "x"), context.Canceled)
}
