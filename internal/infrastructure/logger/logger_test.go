package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), tt.input)
	}
}

func TestNew_Formats(t *testing.T) {
	var jsonBuf bytes.Buffer
	jsonLogger := New(Config{Format: "json", Level: "debug", Output: &jsonBuf})
	jsonLogger.Info().Str("account_id", "a1").Msg("hello")

	out := strings.TrimSpace(jsonBuf.String())
	assert.True(t, strings.HasPrefix(out, "{"), out)
	assert.Contains(t, out, `"account_id":"a1"`)
	assert.Contains(t, out, `"service":"gobank"`)

	var consoleBuf bytes.Buffer
	consoleLogger := New(Config{Format: "console", Level: "info", Output: &consoleBuf})
	consoleLogger.Info().Msg("hello")
	assert.Contains(t, consoleBuf.String(), "hello")
	assert.False(t, strings.HasPrefix(consoleBuf.String(), "{"))
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: "json", Level: "warn", Output: &buf})

	l.Info().Msg("dropped")
	l.Warn().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
