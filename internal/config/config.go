// Package config handles application configuration and setup
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
)

// StdoutName is the trace file name that selects the console.
const StdoutName = "-"

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateTraceWriter returns a buffered writer for the instruction trace.
// An empty name disables tracing and returns nil.
func CreateTraceWriter(name string) (io.WriteCloser, error) {
	switch name {
	case "":
		return nil, nil
	case StdoutName:
		return newBufferedWriter(os.Stdout, nil), nil
	}

	file, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("creating trace file %s: %w", name, err)
	}
	return newBufferedWriter(file, file), nil
}

// bufferedWriter flushes its buffer on Close and closes the underlying file
// if there is one.
type bufferedWriter struct {
	*bufio.Writer
	closer io.Closer
}

func newBufferedWriter(w io.Writer, closer io.Closer) *bufferedWriter {
	return &bufferedWriter{
		Writer: bufio.NewWriter(w),
		closer: closer,
	}
}

func (b *bufferedWriter) Close() error {
	if err := b.Flush(); err != nil {
		return fmt.Errorf("flushing trace: %w", err)
	}
	if b.closer == nil {
		return nil
	}
	if err := b.closer.Close(); err != nil {
		return fmt.Errorf("closing trace: %w", err)
	}
	return nil
}
