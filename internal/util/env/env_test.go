package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeyFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nGEMINI_API_KEY=abc123\nOTHER=x\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	assert.Equal(t, "abc123", LoadKeyFromEnvFile(path, "GEMINI_API_KEY"))
	assert.Equal(t, "x", LoadKeyFromEnvFile(path, "OTHER"))
	assert.Empty(t, LoadKeyFromEnvFile(path, "MISSING"))
	assert.Empty(t, LoadKeyFromEnvFile(filepath.Join(t.TempDir(), "nope"), "GEMINI_API_KEY"))
}

func TestSaveKeyToEnvFile(t *testing.T) {
	t.Run("creates file and directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".resp", ".env")
		require.NoError(t, SaveKeyToEnvFile(path, "GEMINI_API_KEY", "new-key"))
		assert.Equal(t, "new-key", LoadKeyFromEnvFile(path, "GEMINI_API_KEY"))
	})

	t.Run("replaces existing key and keeps comments", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("# keep me\nGEMINI_API_KEY=old\n"), 0600))

		require.NoError(t, SaveKeyToEnvFile(path, "GEMINI_API_KEY", "new"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "# keep me")
		assert.Contains(t, string(data), "GEMINI_API_KEY=new")
		assert.NotContains(t, string(data), "GEMINI_API_KEY=old")
	})
}
