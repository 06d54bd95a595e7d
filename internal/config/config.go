package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime settings of the habit tracker.
type Config struct {
	Port     string
	MongoURI string
	DBName   string

	JWTSecret          string
	TokenExpiry        time.Duration
	RefreshTokenExpiry time.Duration

	// Location is the time zone habit times and start dates are interpreted in.
	Location *time.Location

	TelegramURL   string
	TelegramToken string

	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPPassword string

	ReminderSchedule string
	ReminderWorkers  int
	ReminderTimeout  time.Duration

	RateLimitRPS   int
	RateLimitBurst int

	AllowedOrigins []string
	LogLevel       string
	PageSize       int
}

// LoadConfig reads the .env file (if present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using process environment")
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:           getEnv("DB_NAME", "habit_tracker"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TelegramURL:      getEnv("TELEGRAM_URL", "https://api.telegram.org/bot"),
		TelegramToken:    os.Getenv("TELEGRAM_API_TOKEN"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPSender:       os.Getenv("SMTP_SENDER"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		ReminderSchedule: getEnv("REMINDER_SCHEDULE", "* * * * *"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	if cfg.TokenExpiry, err = getDuration("TOKEN_EXPIRY", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenExpiry, err = getDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ReminderTimeout, err = getDuration("REMINDER_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ReminderWorkers, err = getInt("REMINDER_WORKERS", 8); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getInt("RATE_LIMIT_RPS", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = getInt("PAGE_SIZE", 10); err != nil {
		return nil, err
	}

	cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	return cfg, nil
}

// SMTPEnabled reports whether e-mail reminders can be sent.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPSender != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
