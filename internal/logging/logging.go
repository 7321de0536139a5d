package logging

import (
	"io"
	"os"
	"time"

	"github.com/plus3/grabfocus/internal/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// New builds the process logger described by cfg, writing to stderr.
func New(cfg config.Config) (zerolog.Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg config.Config, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), eris.Wrapf(err, "log level %q", cfg.LogLevel)
	}

	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
