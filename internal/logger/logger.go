// Package logger builds the zerolog logger shared by the server, the access log
// middleware and the startup tasks (schema bootstrap, tracing setup).
//
// Every entry is a single JSON line carrying a "ts" field rendered in the
// configured location. In the dev environment the output is human readable.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w for the given environment.
// Valid environments: "dev", "staging", "prod"; anything else is treated as prod.
func New(w io.Writer, env string, loc *time.Location) zerolog.Logger {
	if loc == nil {
		loc = time.UTC
	}

	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFunc = func() time.Time { return time.Now().In(loc) }

	level := zerolog.InfoLevel
	if env == "dev" || env == "staging" {
		level = zerolog.DebugLevel
	}

	if env == "dev" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewStdout is New writing to standard output.
func NewStdout(env string, loc *time.Location) zerolog.Logger {
	return New(os.Stdout, env, loc)
}
