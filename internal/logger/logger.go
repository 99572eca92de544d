package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets up the global zerolog logger with structured JSON output on
// stdout. Level is parsed from the given string (e.g. "debug", "info",
// "warn", "error") and falls back to info.
func Init(level, service string) {
	InitWriter(os.Stdout, level, service)
}

// InitWriter is Init with a custom destination
func InitWriter(w io.Writer, level, service string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = true

	log.Logger = zerolog.New(w).With().
		Timestamp().
		Str("service", service).
		Logger()
}
