// Package logging builds the charm loggers used by the CLI and the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

const prefix = "checklist"

// New returns a text logger writing to w.
func New(w io.Writer, level string) (*log.Logger, error) {
	return build(w, level, log.TextFormatter)
}

// OpenFile appends logfmt records to path. The TUI owns the terminal while it
// runs, so logs go here instead of stderr.
func OpenFile(path, level string) (*log.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := build(f, level, log.LogfmtFormatter)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f.Close, nil
}

func build(w io.Writer, level string, formatter log.Formatter) (*log.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", level, err)
	}
	if w == nil {
		w = io.Discard
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       formatter,
	}), nil
}
