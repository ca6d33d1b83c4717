package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/transit/internal/constants"
)

// WriteFile creates the slash-separated path below dir with content,
// creating parent directories, and returns the full path.
func WriteFile(t *testing.T, dir, path, content string) string {
	t.Helper()

	full := filepath.Join(dir, filepath.FromSlash(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	return full
}

// NewServer lays out a server base directory in a temp dir with a product
// descriptor and files, keyed by slash-separated path relative to the base.
func NewServer(t *testing.T, product, version string, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	WriteFile(t, dir, constants.ProductFileName, fmt.Sprintf("name: %s\nversion: %s\n", product, version))
	for path, content := range files {
		WriteFile(t, dir, path, content)
	}
	return dir
}
