package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "charm.land/log/v2"
)

// ErrUnknownLogLevel indicates an unrecognized log level string.
var ErrUnknownLogLevel = errors.New("unknown log level")

// ParseLevel parses a log level string into a [charm.land/log/v2] level.
func ParseLevel(level string) (charmlog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return charmlog.ErrorLevel, nil
	case "warn", "warning":
		return charmlog.WarnLevel, nil
	case "info":
		return charmlog.InfoLevel, nil
	case "debug":
		return charmlog.DebugLevel, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
}

// AllLevelStrings returns the accepted level strings, for flag help and
// completions.
func AllLevelStrings() []string {
	return []string{"error", "warn", "info", "debug"}
}

// NewLogger creates a [*slog.Logger] backed by a charm handler writing to w.
func NewLogger(w io.Writer, level charmlog.Level) *slog.Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
	})

	return slog.New(handler)
}

// NewLoggerFromString creates a [*slog.Logger] writing to w, parsing the
// level string first.
func NewLoggerFromString(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	return NewLogger(w, lvl), nil
}
