package mlog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerJson(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&LoggerConfiguration{
		EnableConsole: true,
		ConsoleJson:   true,
		ConsoleLevel:  LevelInfo,
	}, &buf)

	logger.Debug("hidden")
	logger.With(String("request_id", "abc")).Info("View reported", Int64("post_id", 42))
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "View reported", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "abc", entry["request_id"])
	assert.Equal(t, float64(42), entry["post_id"])
}

func TestChangeLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&LoggerConfiguration{
		EnableConsole: true,
		ConsoleLevel:  LevelWarn,
	}, &buf)

	logger.Info("first")
	assert.Empty(t, buf.String())

	logger.ChangeLevels(&LoggerConfiguration{ConsoleLevel: LevelDebug})
	logger.Debug("second")
	assert.Contains(t, buf.String(), "second")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestDisabledConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&LoggerConfiguration{ConsoleLevel: LevelDebug}, &buf)

	logger.Error("dropped")
	assert.Empty(t, buf.String())
}
