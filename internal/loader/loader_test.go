package loader

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load ROM file", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0x12, 0x34, 0x56, 0x78})

		loader := New()
		opts := options.Program{
			Parameters: options.Parameters{Input: tmpFile},
		}

		reader, err := loader.Load(opts)
		assert.NoError(t, err)
		defer func() { _ = reader.Close() }()

		data, err := io.ReadAll(reader)
		assert.NoError(t, err)
		assert.Equal(t, 4, len(data))
		assert.Equal(t, byte(0x12), data[0])
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		loader := New()
		opts := options.Program{
			Parameters: options.Parameters{Input: "/nonexistent/file.ch8"},
		}

		_, err := loader.Load(opts)
		assert.Error(t, err)
	})

	t.Run("error on directory", func(t *testing.T) {
		loader := New()
		opts := options.Program{
			Parameters: options.Parameters{Input: t.TempDir()},
		}

		_, err := loader.Load(opts)
		assert.ErrorContains(t, err, "is a directory")
	})
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ch8")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}
