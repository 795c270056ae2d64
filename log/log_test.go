package log_test

import (
	"bytes"
	"testing"

	charmlog "charm.land/log/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brkerd/video-to-ascii-mrd/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    charmlog.Level
		expectError bool
	}{
		"error level": {
			input:    "error",
			expected: charmlog.ErrorLevel,
		},
		"warn level": {
			input:    "warn",
			expected: charmlog.WarnLevel,
		},
		"warning level": {
			input:    "warning",
			expected: charmlog.WarnLevel,
		},
		"info level": {
			input:    "info",
			expected: charmlog.InfoLevel,
		},
		"debug level": {
			input:    "debug",
			expected: charmlog.DebugLevel,
		},
		"case insensitive": {
			input:    "INFO",
			expected: charmlog.InfoLevel,
		},
		"unknown level": {
			input:       "verbose",
			expectError: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lvl, err := log.ParseLevel(tc.input)
			if tc.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, lvl)
			}
		})
	}
}

func TestNewLoggerFromString(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger, err := log.NewLoggerFromString(&buf, "warn")
	require.NoError(t, err)

	logger.Info("too quiet")
	logger.Warn("loud enough", "video", "idle.mp4")

	out := buf.String()
	assert.NotContains(t, out, "too quiet")
	assert.Contains(t, out, "loud enough")

	_, err = log.NewLoggerFromString(&buf, "verbose")
	require.ErrorIs(t, err, log.ErrUnknownLogLevel)
}

func TestConfigFlags(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.PersistentFlags())

	require.NoError(t, cfg.RegisterCompletions(cmd))

	require.NoError(t, cmd.PersistentFlags().Set("log-level", "debug"))
	assert.Equal(t, "debug", cfg.Level)

	var buf bytes.Buffer

	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)

	logger.Debug("visible at debug")
	assert.Contains(t, buf.String(), "visible at debug")
}
