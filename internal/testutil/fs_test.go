package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/transit/internal/constants"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := WriteFile(t, dir, "standalone/configuration/standalone.yaml", "children: {}\n")

	assert.Equal(t, filepath.Join(dir, "standalone", "configuration", "standalone.yaml"), path)
	data, err := os.ReadFile(path) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	assert.Equal(t, "children: {}\n", string(data))
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	dir := NewServer(t, "WildFly", "10.1.0.Final", map[string]string{
		"domain/configuration/host.yaml": "children: {}\n",
	})

	descriptor, err := os.ReadFile(filepath.Join(dir, constants.ProductFileName)) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	assert.Equal(t, "name: WildFly\nversion: 10.1.0.Final\n", string(descriptor))
	assert.FileExists(t, filepath.Join(dir, "domain", "configuration", "host.yaml"))
}
