package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process logger on stderr and installs it as the global logger, keeping stdout free
// for the MCP transport and batch output. pretty switches from JSON lines to a console writer.
func New(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()

	// request filters log through the global logger
	log.Logger = l
	return l
}
