package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileState(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{
			name:     "recipes json",
			filename: "recipes.json",
			data:     []byte(`[{"name": "Bread", "ingredients": ["500 g flour"]}]`),
		},
		{
			name:     "plain text lines",
			filename: "lines.txt",
			data:     []byte("500 g flour\n10 g salt\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filePath := filepath.Join(tmpDir, tt.filename)
			require.NoError(t, os.WriteFile(filePath, tt.data, 0644))

			loaded, err := NewFileState(filePath).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.data, loaded)
		})
	}

	t.Run("load nonexistent file", func(t *testing.T) {
		_, err := NewFileState(filepath.Join(tmpDir, "nonexistent.json")).Load(context.Background())
		assert.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewFileState(filepath.Join(tmpDir, "recipes.json")).Load(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestReaderState(t *testing.T) {
	data, err := NewReaderState(strings.NewReader("1 egg\n")).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1 egg\n", string(data))
}
