package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "habit_tracker", cfg.DBName)
	assert.Equal(t, 15*time.Minute, cfg.TokenExpiry)
	assert.Equal(t, 10*time.Second, cfg.ReminderTimeout)
	assert.Equal(t, "* * * * *", cfg.ReminderSchedule)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_EXPIRY", "1h")
	t.Setenv("REMINDER_WORKERS", "3")
	t.Setenv("TIMEZONE", "Europe/Moscow")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_SENDER", "bot@example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.TokenExpiry)
	assert.Equal(t, 3, cfg.ReminderWorkers)
	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.SMTPEnabled())
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":   {"JWT_SECRET": ""},
		"bad duration":     {"JWT_SECRET": "s", "TOKEN_EXPIRY": "soon"},
		"bad integer":      {"JWT_SECRET": "s", "REMINDER_WORKERS": "many"},
		"negative integer": {"JWT_SECRET": "s", "PAGE_SIZE": "-1"},
		"bad timezone":     {"JWT_SECRET": "s", "TIMEZONE": "Mars/Olympus"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
