package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestSetupText(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("Worksheet Radiology not found; skipping.", "sheet", "Radiology")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "sheet=Radiology")
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "debug", "JSON")

	logger.Debug("Created file", "path", "out.xlsx")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "Created file", entry["msg"])
	assert.Equal(t, "out.xlsx", entry["path"])
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("info", "text"))
	assert.NoError(t, Validate("", ""))
	assert.Error(t, Validate("loud", "text"))
	assert.Error(t, Validate("info", "xml"))
}
