// Package logging provides the structured logger shared by all three
// services.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds a logrus logger with JSON output to stdout, level driven by
// envVar (one of debug/info/warn/error, case-insensitive; unset or
// unrecognised values default to info). The component argument is not
// attached to entries here; Entry adds the component field.
func New(component, envVar string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	logger.SetLevel(levelFromEnv(envVar))

	return logger
}

// Entry returns a logger pre-populated with the component field, for
// attaching to long-lived actors and services.
func Entry(logger *logrus.Logger, component string) *logrus.Entry {
	return logger.WithField("component", component)
}

func levelFromEnv(envVar string) logrus.Level {
	switch strings.ToLower(os.Getenv(envVar)) {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
