package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// newLogger builds the structured logger from the log_level and log_format
// settings. Logs go to w, normally stderr.
func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	if level == "" {
		level = defaultLogLevel
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log_level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log_format %q", format)
	}
}
