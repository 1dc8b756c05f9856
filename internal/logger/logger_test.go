package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "info", Format: "json"}, &buf)

	log.Debug("hidden")
	log.Info("user created", "user_id", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "user created", entry["msg"])
	assert.Equal(t, float64(42), entry["user_id"])
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Level: "debug", Format: "text"}, &buf)

	log.Debug("orders listed", "count", 3)
	assert.Contains(t, buf.String(), "msg=\"orders listed\"")
	assert.Contains(t, buf.String(), "count=3")
}
