// Package logging builds the slog loggers used by rolo and rolod.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options configures a logger. The struct tags feed rolod's CLI.
type Options struct {
	Level  string `doc:"log from debug, info, warn or error"`
	File   string `doc:"append logs to file"`
	Format string `doc:"format logs as text or json" default:"text"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func level(option string) (slog.Leveler, bool) {
	switch strings.ToLower(strings.TrimSpace(option)) {
	case "":
		return nil, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return nil, false
	}
}

// New returns a logger for options together with a closer for any file it
// opened. An empty File or "-" logs to fallback (stderr when nil); os.DevNull
// discards. Unparseable options fall back to defaults and the returned logger
// warns about them.
func New(options Options, fallback io.Writer) (*slog.Logger, io.Closer) {
	lvl, ok := level(options.Level)
	if !ok {
		bad := options.Level
		options.Level = ""
		logger, closer := New(options, fallback)
		logger.Warn("could not parse logger level", "level", bad)
		return logger, closer
	}
	opts := slog.HandlerOptions{Level: lvl}

	var output io.Writer
	var closer io.Closer = nopCloser{}
	switch options.File {
	case "", "-":
		output = fallback
		if output == nil {
			output = os.Stderr
		}
	case os.DevNull:
		return slog.New(slog.DiscardHandler), closer
	default:
		if err := os.MkdirAll(filepath.Dir(options.File), 0o755); err != nil {
			return fallbackWithWarning(options, fallback, "could not create logger dir", err)
		}
		file, err := os.OpenFile(options.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return fallbackWithWarning(options, fallback, "could not open logger file", err)
		}
		output = file
		closer = file
	}

	switch strings.ToLower(strings.TrimSpace(options.Format)) {
	case "json":
		return slog.New(slog.NewJSONHandler(output, &opts)), closer
	case "", "text":
		return slog.New(slog.NewTextHandler(output, &opts)), closer
	default:
		_ = closer.Close()
		bad := options.Format
		options.Format = "text"
		logger, closer := New(options, fallback)
		logger.Warn("could not parse logger format", "format", bad)
		return logger, closer
	}
}

func fallbackWithWarning(options Options, fallback io.Writer, msg string, err error) (*slog.Logger, io.Closer) {
	options.File = ""
	logger, closer := New(options, fallback)
	logger.Warn(msg, "err", err)
	return logger, closer
}
