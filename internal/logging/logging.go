// Package logging configures the console logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"taskdeck/internal/config"
)

// New creates the application logger from configuration. Output goes to
// stderr so it never interleaves with the TUI or command output.
func New(cfg *config.Config) *log.Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter is New with an explicit destination, for tests.
func NewWithWriter(w io.Writer, cfg *config.Config) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           parseLevel(cfg.LogLevel),
		Formatter:       parseFormat(cfg.LogFormat),
		ReportTimestamp: cfg.LogTimestamps,
		Prefix:          "taskdeck",
	})
}

// parseLevel maps a config string to a log level, defaulting to info.
func parseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// parseFormat maps a config string to a formatter, defaulting to text.
func parseFormat(s string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
