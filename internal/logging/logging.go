// Package logging builds the zerolog loggers used across the firmware.
package logging

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"cartreader/hal"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config level name to zerolog, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// LineWriter forwards each newline-terminated chunk to a hal.Logger.
type LineWriter struct {
	mu  sync.Mutex
	out hal.Logger
	buf []byte
}

func NewLineWriter(out hal.Logger) *LineWriter {
	return &LineWriter{out: out}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.out.WriteLineBytes(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) == 0 {
		w.buf = nil
	}
	return len(p), nil
}

// Device returns a logger writing compact JSON lines to the board logger.
func Device(out hal.Logger, level string) zerolog.Logger {
	return New(NewLineWriter(out), level)
}

// New returns a timestamped logger on w.
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}
