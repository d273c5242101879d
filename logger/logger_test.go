package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aws/smithy-go/logging"
	"github.com/stretchr/testify/assert"
)

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(DEBUG, &buf)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message %d", 42)

	output := buf.String()
	assert.Contains(t, output, "[DEBUG] debug message")
	assert.Contains(t, output, "[INFO] info message")
	assert.Contains(t, output, "[WARN] warn message")
	assert.Contains(t, output, "[ERROR] error message 42")
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(ERROR, &buf)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "[DEBUG]")
	assert.NotContains(t, output, "[INFO]")
	assert.NotContains(t, output, "[WARN]")
	assert.Contains(t, output, "[ERROR] error message")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", DEBUG},
		{"DEBUG", DEBUG},
		{"info", INFO},
		{"warn", WARN},
		{"warning", WARN},
		{"WARNING", WARN},
		{"error", ERROR},
		{"invalid", INFO}, // по умолчанию INFO
		{"", INFO},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, ParseLogLevel(test.input), "ParseLogLevel(%q)", test.input)
	}
}

func TestIsValidLevel(t *testing.T) {
	assert.True(t, IsValidLevel("debug"))
	assert.True(t, IsValidLevel("WARN"))
	assert.False(t, IsValidLevel("verbose"))
	assert.False(t, IsValidLevel(""))
}

func TestGlobalLogger(t *testing.T) {
	originalLevel := GetGlobalLevel()
	originalLogger := globalLogger
	defer func() {
		globalLogger = originalLogger
		SetGlobalLevel(originalLevel)
	}()

	var buf bytes.Buffer
	globalLogger = NewWithWriter(WARN, &buf)

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "[DEBUG]")
	assert.NotContains(t, output, "[INFO]")
	assert.Contains(t, output, "[WARN] warn message")
	assert.Contains(t, output, "[ERROR] error message")
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "ERROR", ERROR.String())
	assert.Equal(t, "UNKNOWN", LogLevel(999).String())
}

func TestSmithyLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(DEBUG, &buf)
	adapter := NewSmithyLogger(l)

	adapter.Logf(logging.Warn, "profile %s not found", "dev")
	adapter.Logf(logging.Debug, "resolved region %s", "us-east-1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if assert.Len(t, lines, 2) {
		assert.Contains(t, lines[0], "[WARN] aws-sdk: profile dev not found")
		assert.Contains(t, lines[1], "[DEBUG] aws-sdk: resolved region us-east-1")
	}
}
