package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the root logger. Every line carries the service name so the
// complaint backend is distinguishable once logs are aggregated alongside the
// other municipal services.
func New(env string) zerolog.Logger {
	level := zerolog.InfoLevel
	if env == "development" {
		level = zerolog.DebugLevel
	}

	log := zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Str("service", "complaint-service").
		Logger()
	if env == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
	return log
}
