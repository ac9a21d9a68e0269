package internal

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a JSON logger in prod and a console logger otherwise.
func NewLogger(w io.Writer, env string, level string) zerolog.Logger {
	if env != "prod" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	logger := zerolog.New(w).With().Timestamp().Logger()

	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		logger.Warn().Str("value", level).Msg("Invalid log level. Using default level: info")
		l = zerolog.InfoLevel
	}
	return logger.Level(l)
}
