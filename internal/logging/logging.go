// Package logging builds the application's zerolog logger.
package logging

import (
	"io"
	"os"

	"clickbreak/internal/config"
	"github.com/rs/zerolog"
)

// Setup creates the root logger described by cfg and sets the global level.
func Setup(cfg config.LoggingConfig) zerolog.Logger {
	return New(cfg, os.Stderr)
}

// New is Setup with an explicit destination.
func New(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	if cfg.Format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	}

	// Default to JSON
	return zerolog.New(out).With().Timestamp().Logger()
}

// ParseLevel maps a configured level name, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	switch name {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
