package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds a component-scoped logger. APP_ENV=dev switches to the human
// console writer; LOG_LEVEL overrides the default info level.
func New(component string) zerolog.Logger {
	level := zerolog.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}

	var logger zerolog.Logger
	if strings.EqualFold(os.Getenv("APP_ENV"), "dev") {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Str("component", component).Logger()
}
