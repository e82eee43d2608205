package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LogConfig{Format: "json"})

	l.Info().Str("contract_id", "c1").Msg("Snapshot computed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "c1", entry["contract_id"])
	assert.Equal(t, "Snapshot computed", entry["message"])
}

func TestNew_ConsoleFallback(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LogConfig{Format: "pretty"})

	l.Warn().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestSetup(t *testing.T) {
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prevLevel) })

	path := filepath.Join(t.TempDir(), "crm.log")
	require.NoError(t, Setup(LogConfig{Level: "DEBUG", Format: "json", Output: path}))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	assert.Error(t, Setup(LogConfig{Level: "loud"}))
	assert.Error(t, Setup(LogConfig{Level: "info", Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")}))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "stderr", cfg.Output)
}
