package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the application-wide structured logger.
var Log = logrus.New()

// InitLogger configures Log for JSON output on stdout at the given level.
func InitLogger(level string) {
	Log = logrus.New()

	// Output to stdout instead of the default stderr
	Log.Out = os.Stdout

	// Set JSON formatter for structured logging
	Log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Log.WithField("level", level).Warn("Unknown log level, falling back to info")
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// Packages that log through the logrus standard logger share the setup.
	logrus.SetOutput(Log.Out)
	logrus.SetFormatter(Log.Formatter)
	logrus.SetLevel(lvl)
}
