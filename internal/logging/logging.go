// Package logging builds the leveled console logger shared by the server,
// the CLI and the TUI.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Options configure New.
type Options struct {
	Level           string
	Prefix          string
	ReportTimestamp bool
	JSON            bool
}

func DefaultOptions() Options {
	return Options{Level: "info", Prefix: "tada", ReportTimestamp: true}
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	formatter := log.TextFormatter
	if opts.JSON {
		formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel maps a level name to a log.Level. Unknown names mean info.
func ParseLevel(s string) log.Level {
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
