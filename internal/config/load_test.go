package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/transit/internal/constants"
	transiterrors "github.com/mrz1836/transit/internal/errors"
)

// isolate points the global layer at an empty home and moves into an empty
// project directory so the developer's own files cannot leak into a test.
func isolate(t *testing.T) (home, project string) {
	t.Helper()

	home = t.TempDir()
	project = t.TempDir()
	t.Setenv(constants.HomeEnvVar, home)
	t.Chdir(project)
	for _, key := range []string{
		"TRANSIT_MIGRATION_INTERACTIVE",
		"TRANSIT_MIGRATION_LOCK_TIMEOUT",
		"TRANSIT_MIGRATION_SKIP_TASKS",
	} {
		// Setenv registers the restore; Unsetenv makes the key truly absent.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return home, project
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	isolate(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Migration.Interactive, cfg.Migration.Interactive)
	assert.Equal(t, def.Migration.LockTimeout, cfg.Migration.LockTimeout)
	assert.Empty(t, cfg.Migration.SkipTasks)
	assert.Empty(t, cfg.Migration.EnvironmentFile)
	assert.Equal(t, def.Logging, cfg.Logging)
	assert.Equal(t, def.Report, cfg.Report)
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	home, project := isolate(t)

	writeFile(t, filepath.Join(home, "config.yaml"), `
migration:
  lock_timeout: 30s
  interactive: false
report:
  show_skipped: false
`)
	writeFile(t, filepath.Join(project, ".transit", "config.yaml"), `
migration:
  lock_timeout: 1m
`)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.Migration.LockTimeout)
	assert.False(t, cfg.Migration.Interactive, "global value survives when project omits it")
	assert.False(t, cfg.Report.ShowSkipped)
	assert.Equal(t, constants.LogMaxSizeMB, cfg.Logging.MaxSizeMB)
}

func TestLoad_EnvironmentOverridesFiles(t *testing.T) {
	_, project := isolate(t)

	writeFile(t, filepath.Join(project, ".transit", "config.yaml"), `
migration:
  lock_timeout: 1m
`)
	t.Setenv("TRANSIT_MIGRATION_LOCK_TIMEOUT", "2s")
	t.Setenv("TRANSIT_MIGRATION_SKIP_TASKS", "deployments.remove,setup-private-interface")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Migration.LockTimeout)
	assert.Equal(t, []string{"deployments.remove", "setup-private-interface"}, cfg.Migration.SkipTasks)
}

func TestLoad_InvalidFileValue(t *testing.T) {
	_, project := isolate(t)

	writeFile(t, filepath.Join(project, ".transit", "config.yaml"), `
logging:
  max_backups: -2
`)

	_, err := Load(context.Background())
	require.ErrorIs(t, err, transiterrors.ErrConfigInvalidLogging)
}

func TestLoadWithOverrides(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithOverrides(context.Background(), &Config{
		Migration: MigrationConfig{
			EnvironmentFile: "env.yaml",
			SkipTasks:       []string{"migrate-content"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "env.yaml", cfg.Migration.EnvironmentFile)
	assert.Equal(t, []string{"migrate-content"}, cfg.Migration.SkipTasks)
	assert.Equal(t, DefaultLockTimeout, cfg.Migration.LockTimeout, "zero override leaves the loaded value")
}

func TestLoadWithOverrides_RevalidatesResult(t *testing.T) {
	isolate(t)

	_, err := LoadWithOverrides(context.Background(), &Config{
		Migration: MigrationConfig{LockTimeout: time.Hour},
	})
	require.ErrorIs(t, err, transiterrors.ErrConfigInvalidMigration)
}

func TestLoadFromPaths(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	global := filepath.Join(dir, "global.yaml")
	project := filepath.Join(dir, "project.yaml")
	writeFile(t, global, `
logging:
  max_size_mb: 50
  compress: false
`)
	writeFile(t, project, `
logging:
  max_size_mb: 20
`)

	tests := []struct {
		name         string
		project      string
		global       string
		wantSize     int
		wantCompress bool
	}{
		{name: "both layers", project: project, global: global, wantSize: 20, wantCompress: false},
		{name: "global only", global: global, wantSize: 50, wantCompress: false},
		{name: "project only", project: project, wantSize: 20, wantCompress: true},
		{name: "missing files", project: filepath.Join(dir, "nope.yaml"), wantSize: constants.LogMaxSizeMB, wantCompress: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromPaths(context.Background(), tt.project, tt.global)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSize, cfg.Logging.MaxSizeMB)
			assert.Equal(t, tt.wantCompress, cfg.Logging.Compress)
		})
	}
}
