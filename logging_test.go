package ingredient

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn")

	logger.Info("SETUP: dropped")
	logger.Warn("SETUP: kept", "line", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "SETUP: kept", rec["msg"])
	assert.Equal(t, 3.0, rec["line"])
}

func TestFdump(t *testing.T) {
	ing, err := Parse("2 cups flour, sifted")
	require.NoError(t, err)

	var buf bytes.Buffer
	Fdump(&buf, ing)
	out := buf.String()
	assert.Contains(t, out, "ingredient.Ingredient")
	assert.Contains(t, out, `Name: (string) (len=5) "flour"`)
	assert.Contains(t, out, `Unit: (string) (len=4) "cups"`)
	assert.Contains(t, out, `"sifted"`)
	assert.NotContains(t, out, "0x")
	assert.NotContains(t, out, "2 cups flour, sifted")
}
