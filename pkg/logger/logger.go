package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName tags every log line.
const ServiceName = "offerwall-rewards"

// Options configures New.
type Options struct {
	Level  string    // trace, debug, info, warn, error; anything else means info
	Pretty bool      // console output for local runs
	Out    io.Writer // defaults to stdout
	Caller bool
}

// New builds the process logger.
func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Str("service", ServiceName)
	if opts.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// ParseLevel maps a config value to a zerolog level, falling back to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Component returns a child logger tagged with the component name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
