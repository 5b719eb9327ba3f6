package logger

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	defer func() { os.Stdout = orig }()

	r, w, err := os.Pipe()
	require.NoError(t, err, "failed to create stdout pipe")
	os.Stdout = w

	fn()

	err = w.Close()
	require.NoError(t, err, "failed to close stdout pipe")
	out, err := io.ReadAll(r)
	require.NoError(t, err, "failed to read stdout pipe")

	return string(out)
}

func TestLogger_parseLevel(t *testing.T) {
	t.Run("valid value", func(t *testing.T) {
		tests := []struct {
			name     string
			input    string
			expected slog.Level
		}{
			{"Debug level", "DEBUG", slog.LevelDebug},
			{"Debug level lowercase", "debug", slog.LevelDebug},
			{"Info level", "INFO", slog.LevelInfo},
			{"Warn level", "warn", slog.LevelWarn},
			{"Error level", "error", slog.LevelError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := parseLevel(tt.input)

				require.NoError(t, err, "parseLevel(%q) should not return an error", tt.input)
				require.Equal(t, tt.expected, got, "parseLevel(%q) should return %v", tt.input, tt.expected)
			})
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := parseLevel("loud")
		require.Error(t, err, "unknown level must not be accepted silently")
	})
}

func TestLogger_New(t *testing.T) {
	t.Run("unknown environment", func(t *testing.T) {
		_, err := New("staging", LevelInfo)
		require.Error(t, err)
	})

	t.Run("production logs json", func(t *testing.T) {
		out := capture(t, func() {
			l, err := New(EnvProduction, LevelInfo)
			require.NoError(t, err)
			l.Info("hello", "key", "value")
		})

		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &record), "production output should be json. Got: %s", out)
		require.Equal(t, "hello", record["msg"])
		require.Equal(t, "value", record["key"])
	})

	t.Run("level filters", func(t *testing.T) {
		out := capture(t, func() {
			l, err := New(EnvDevelopment, LevelWarn)
			require.NoError(t, err)
			l.Info("should be dropped")
		})

		require.Empty(t, out, "info record must be dropped on warn level")
	})

	t.Run("noop logger silent", func(t *testing.T) {
		out := capture(t, func() {
			NewNoOp().Error("nothing to see")
		})

		require.Empty(t, out)
	})
}
