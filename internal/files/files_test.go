package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	transiterrors "github.com/mrz1836/transit/internal/errors"
)

var past = time.Date(2020, time.March, 14, 15, 9, 26, 0, time.UTC)

// writeTree creates files (relative path -> content) under root and sets
// every file and directory mtime to past.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	require.NoError(t, filepath.Walk(root, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		return os.Chtimes(path, past, past)
	}))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //#nosec G304 -- test path
	require.NoError(t, err)
	return string(data)
}

func modTime(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime()
}

func TestCopyFreshTarget(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src", "data")
	dst := filepath.Join(base, "dst", "data")
	writeTree(t, src, map[string]string{
		"content/aa/bb/content": "deployment bytes",
		"timer-service/x.dat":   "timer",
	})

	m := New()
	require.NoError(t, m.Copy(context.Background(), src, dst))

	assert.Equal(t, "deployment bytes", readFile(t, filepath.Join(dst, "content/aa/bb/content")))
	assert.Equal(t, "timer", readFile(t, filepath.Join(dst, "timer-service/x.dat")))
	assert.NoFileExists(t, BackupPath(dst))
	assert.NoDirExists(t, BackupPath(dst))

	for _, rel := range []string{"", "content", "content/aa", "content/aa/bb/content", "timer-service/x.dat"} {
		assert.WithinDuration(t, past, modTime(t, filepath.Join(dst, rel)), time.Second, rel)
	}

	for _, rel := range []string{"", "content", "content/aa/bb", "timer-service/x.dat"} {
		source, ok := m.Source(filepath.Join(dst, rel))
		require.True(t, ok, rel)
		assert.Equal(t, filepath.Join(src, rel), source)
	}
	assert.Equal(t, 7, m.Len())
}

func TestCopyIdempotent(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	dst := filepath.Join(base, "dst")
	writeTree(t, src, map[string]string{"a.txt": "first"})

	m := New()
	ctx := context.Background()
	require.NoError(t, m.Copy(ctx, src, dst))

	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("second"), 0o600))
	require.NoError(t, m.Copy(ctx, src, dst))

	assert.Equal(t, "first", readFile(t, filepath.Join(dst, "a.txt")), "second copy does no work")
	assert.NoDirExists(t, BackupPath(dst))
}

func TestCopyConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("different source for same target", func(t *testing.T) {
		t.Parallel()
		base := t.TempDir()
		srcA := filepath.Join(base, "a")
		srcB := filepath.Join(base, "b")
		dst := filepath.Join(base, "dst")
		writeTree(t, srcA, map[string]string{"f.txt": "from a"})
		writeTree(t, srcB, map[string]string{"f.txt": "from b"})

		m := New()
		require.NoError(t, m.Copy(ctx, srcA, dst))
		err := m.Copy(ctx, srcB, dst)
		require.ErrorIs(t, err, transiterrors.ErrCopyConflict)

		assert.Equal(t, "from a", readFile(t, filepath.Join(dst, "f.txt")))
		source, ok := m.Source(dst)
		require.True(t, ok)
		assert.Equal(t, srcA, source)
	})

	t.Run("nested target already copied from elsewhere", func(t *testing.T) {
		t.Parallel()
		base := t.TempDir()
		src := filepath.Join(base, "src")
		other := filepath.Join(base, "other")
		dst := filepath.Join(base, "dst")
		writeTree(t, src, map[string]string{"deployments/app.war": "app"})
		writeTree(t, other, map[string]string{"app.war": "other app"})

		m := New()
		require.NoError(t, m.Copy(ctx, src, dst))
		err := m.Copy(ctx, other, filepath.Join(dst, "deployments"))
		require.ErrorIs(t, err, transiterrors.ErrCopyConflict)
		assert.Equal(t, "app", readFile(t, filepath.Join(dst, "deployments/app.war")))
	})

	t.Run("conflict found during walk keeps earlier entries", func(t *testing.T) {
		t.Parallel()
		base := t.TempDir()
		first := filepath.Join(base, "first")
		second := filepath.Join(base, "second")
		dst := filepath.Join(base, "dst")
		writeTree(t, first, map[string]string{"x.txt": "x"})
		writeTree(t, second, map[string]string{"sub/x.txt": "y"})

		m := New()
		require.NoError(t, m.Copy(ctx, first, filepath.Join(dst, "sub")))
		before := m.Len()

		err := m.Copy(ctx, second, dst)
		require.ErrorIs(t, err, transiterrors.ErrCopyConflict)
		assert.Greater(t, m.Len(), before)

		source, ok := m.Source(filepath.Join(dst, "sub", "x.txt"))
		require.True(t, ok)
		assert.Equal(t, filepath.Join(first, "x.txt"), source)
		assert.DirExists(t, BackupPath(dst), "backup stays in place after failure")
	})
}

func TestCopyBacksUpExistingTarget(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	dst := filepath.Join(base, "dst")
	writeTree(t, src, map[string]string{"new.txt": "new"})
	writeTree(t, dst, map[string]string{"old.txt": "old", "nested/keep.txt": "keep"})

	require.NoError(t, New().Copy(context.Background(), src, dst))

	backup := BackupPath(dst)
	assert.Equal(t, filepath.Join(base, "dst.beforeMigration"), backup)
	assert.Equal(t, "old", readFile(t, filepath.Join(backup, "old.txt")))
	assert.Equal(t, "keep", readFile(t, filepath.Join(backup, "nested/keep.txt")))
	assert.WithinDuration(t, past, modTime(t, filepath.Join(backup, "nested")), time.Second)

	assert.Equal(t, "new", readFile(t, filepath.Join(dst, "new.txt")))
	assert.NoFileExists(t, filepath.Join(dst, "old.txt"))
}

func TestCopyKeepsEarlierBackup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		runs    int
		want    map[string]string
		missing string
	}{
		{
			name: "second run",
			runs: 2,
			want: map[string]string{
				"dst.beforeMigration":   "ORIGINAL",
				"dst.beforeMigration.1": "migrated",
			},
			missing: "dst.beforeMigration.2",
		},
		{
			name: "third run",
			runs: 3,
			want: map[string]string{
				"dst.beforeMigration":   "ORIGINAL",
				"dst.beforeMigration.1": "migrated",
				"dst.beforeMigration.2": "migrated",
			},
			missing: "dst.beforeMigration.3",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			base := t.TempDir()
			src := filepath.Join(base, "src")
			dst := filepath.Join(base, "dst")
			writeTree(t, src, map[string]string{"a.txt": "migrated"})
			writeTree(t, dst, map[string]string{"a.txt": "ORIGINAL"})

			for range tc.runs {
				require.NoError(t, New().Copy(context.Background(), src, dst))
			}

			for rel, content := range tc.want {
				assert.Equal(t, content, readFile(t, filepath.Join(base, rel, "a.txt")), rel)
			}
			assert.NoDirExists(t, filepath.Join(base, tc.missing))
			assert.Equal(t, "migrated", readFile(t, filepath.Join(dst, "a.txt")))
		})
	}
}

func TestCopyExistingBackupFile(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "standalone.yaml")
	dst := filepath.Join(base, "target", "standalone.yaml")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o750))
	require.NoError(t, os.WriteFile(dst, []byte("current"), 0o600))
	require.NoError(t, os.WriteFile(BackupPath(dst), []byte("pristine"), 0o600))

	require.NoError(t, New().Copy(context.Background(), src, dst))
	assert.Equal(t, "new", readFile(t, dst))
	assert.Equal(t, "pristine", readFile(t, BackupPath(dst)))
	assert.Equal(t, "current", readFile(t, BackupPath(dst)+".1"))
}

func TestCopySingleFile(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "standalone.yaml")
	dst := filepath.Join(base, "target", "configuration", "standalone.yaml")
	require.NoError(t, os.WriteFile(src, []byte("attributes: {}"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o750))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o600))

	require.NoError(t, New().Copy(context.Background(), src, dst))
	assert.Equal(t, "attributes: {}", readFile(t, dst))
	assert.Equal(t, "old", readFile(t, BackupPath(dst)))
}

func TestCopyOverlappingSameSource(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src", "data")
	dst := filepath.Join(base, "dst", "data")
	writeTree(t, src, map[string]string{"content/a": "a", "other/b": "b"})

	m := New()
	ctx := context.Background()
	require.NoError(t, m.Copy(ctx, filepath.Join(src, "content"), filepath.Join(dst, "content")))
	require.NoError(t, m.Copy(ctx, filepath.Join(src, "content"), filepath.Join(dst, "content")))
	require.NoError(t, m.Copy(ctx, src, dst))

	assert.Equal(t, "a", readFile(t, filepath.Join(dst, "content/a")))
	assert.Equal(t, "b", readFile(t, filepath.Join(dst, "other/b")))
}

func TestCopySourceMissing(t *testing.T) {
	t.Parallel()
	base := t.TempDir()

	m := New()
	err := m.Copy(context.Background(), filepath.Join(base, "missing"), filepath.Join(base, "dst"))
	require.ErrorIs(t, err, transiterrors.ErrSourceMissing)
	assert.Zero(t, m.Len())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, m.Copy(ctx, base, filepath.Join(base, "dst")), context.Canceled)
}

func TestCopyConcurrent(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	dst := filepath.Join(base, "dst")
	writeTree(t, src, map[string]string{"a/1.txt": "1", "a/2.txt": "2", "b/3.txt": "3"})

	m := New()
	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			return m.Copy(context.Background(), src, dst)
		})
	}
	require.NoError(t, g.Wait())

	assert.NoDirExists(t, BackupPath(dst), "only the first copy touched the target")
	assert.Equal(t, 6, m.Len())
	assert.Equal(t, "3", readFile(t, filepath.Join(dst, "b/3.txt")))
}
