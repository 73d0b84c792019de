package shared

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// CheckLevel rejects level names ParseLevel does not know. An empty level
// is allowed and means the configured default.
func CheckLevel(level string) error {
	switch strings.ToLower(level) {
	case "", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log level: %s (want debug, info, warn or error)", level)
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
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

// SetupLogger writes to stderr, as pretty console output or JSON. Standard
// output is left free for command results.
func SetupLogger(level string, jsonFormat bool) zerolog.Logger {
	return NewLogger(os.Stderr, level, jsonFormat)
}

// NewLogger is SetupLogger with an explicit destination.
func NewLogger(w io.Writer, level string, jsonFormat bool) zerolog.Logger {
	var logger zerolog.Logger
	if jsonFormat {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		logger = zerolog.New(w)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
	}
	return logger.Level(ParseLevel(level)).With().Timestamp().Logger()
}
