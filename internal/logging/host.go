//go:build !tinygo

package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures host logging.
type Options struct {
	Level string
	// File, when set, receives a rotated JSON copy of every log line.
	File string
	// Console is where human readable output goes; nil means stderr.
	Console io.Writer
}

// Setup builds the host logger: a console writer plus an optional rotating
// file. The returned closer flushes the file.
func Setup(opts Options) (zerolog.Logger, io.Closer) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: "15:04:05.000"}}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    1,
			MaxBackups: 2,
		}
		writers = append(writers, lj)
		closer = lj
	}

	log := zerolog.New(io.MultiWriter(writers...)).
		Level(ParseLevel(opts.Level)).
		With().Timestamp().Caller().Logger()
	return log, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
