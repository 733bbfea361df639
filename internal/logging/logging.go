// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the global zerolog logger.
//
// Logs go to a rotating file. Commands that do not own the terminal may also
// mirror them to a console writer; the TUI never does.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures Init.
type Options struct {
	// Level is one of trace, debug, info, warn, error, disabled.
	Level string

	// Format is "text" (console writer) or "json".
	Format string

	// File is the rotating log file path. Empty disables file output.
	File string

	// MaxSizeMB and MaxBackups control rotation.
	MaxSizeMB  int
	MaxBackups int

	// Console, when set, also receives every log line.
	Console io.Writer

	// WithCaller adds file:line to each entry.
	WithCaller bool
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, errors.Errorf("unknown log level %q", level)
	}
}

// Init replaces log.Logger according to opts and sets the global level. The
// returned closer releases the log file and must be closed on exit.
func Init(opts Options) (io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
			return nil, errors.Wrap(err, "failed to create log directory")
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB, // megabytes
			MaxBackups: opts.MaxBackups,
			MaxAge:     28, // days
		}
		closer = rotator
		writers = append(writers, formatWriter(opts.Format, rotator, true))
	}

	if opts.Console != nil {
		writers = append(writers, formatWriter(opts.Format, opts.Console, false))
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	if opts.WithCaller {
		logger = logger.With().Caller().Logger()
	}
	log.Logger = logger
	zerolog.SetGlobalLevel(level)

	return closer, nil
}

func formatWriter(format string, w io.Writer, noColor bool) io.Writer {
	if strings.ToLower(format) == "json" {
		return w
	}
	return zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: "2006-01-02 15:04:05"}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
