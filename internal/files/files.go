// Package files implements content-addressed file migration: copying trees
// from a source server into a target server with backup-before-overwrite,
// deduplication of repeated requests and detection of conflicting sources.
package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	cp "github.com/otiai10/copy"
	"github.com/rs/zerolog"

	"github.com/mrz1836/transit/internal/constants"
	transiterrors "github.com/mrz1836/transit/internal/errors"
)

const dirPerm = 0o750

// MigrationFiles is the per-run ledger of migrated target paths. Every file
// and directory written by Copy is recorded with the source it came from.
// It is safe for concurrent use; one lock serializes whole copies.
type MigrationFiles struct {
	mu     sync.Mutex
	ledger map[string]string
	logger zerolog.Logger
}

// Option configures MigrationFiles.
type Option func(*MigrationFiles)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *MigrationFiles) {
		m.logger = logger
	}
}

// New creates an empty ledger.
func New(opts ...Option) *MigrationFiles {
	m := &MigrationFiles{
		ledger: map[string]string{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BackupPath returns the sibling path that receives pre-existing target content.
func BackupPath(target string) string {
	return filepath.Clean(target) + constants.BackupSuffix
}

// Copy copies the source tree into target.
//
// A target already in the ledger is left alone when it came from the same
// source and rejected with ErrCopyConflict otherwise. Anything on disk at
// target is first moved to BackupPath(target), or to a numbered sibling of it
// when an earlier backup is already there. Each file and directory
// written is recorded in the ledger; a walk that reaches a path recorded
// with a different source fails with ErrCopyConflict. Entries recorded before
// a failure are kept, as is the backup.
func (m *MigrationFiles) Copy(ctx context.Context, source, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	source, target, err := normalize(source, target)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(source); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", source, transiterrors.ErrSourceMissing)
		}
		return fmt.Errorf("failed to stat source '%s': %w", source, err)
	}

	if previous, ok := m.ledger[target]; ok {
		if previous != source {
			return conflict(target, source, previous)
		}
		m.logger.Debug().
			Str("source", source).
			Str("target", target).
			Msg("skipping previously copied target")
		return nil
	}

	if err := m.backup(target); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return fmt.Errorf("failed to create target parent '%s': %w", filepath.Dir(target), err)
	}

	m.ledger[target] = source
	visited := 1
	opts := cp.Options{
		PreserveTimes: true,
		Skip: func(_ os.FileInfo, src, dest string) (bool, error) {
			visited++
			return m.register(src, dest)
		},
	}
	if err := cp.Copy(source, target, opts); err != nil {
		return fmt.Errorf("failed to copy '%s' to '%s': %w", source, target, err)
	}

	m.logger.Info().
		Str("source", source).
		Str("target", target).
		Int("paths", visited).
		Msg("files migrated")
	return nil
}

// register records dest as copied from src. Callers hold m.mu.
// A file already recorded with the same source is skipped unless it has
// since been moved away; directories are always descended.
func (m *MigrationFiles) register(src, dest string) (bool, error) {
	dest = filepath.Clean(dest)
	src = filepath.Clean(src)

	previous, ok := m.ledger[dest]
	if !ok {
		m.ledger[dest] = src
		m.logger.Debug().Str("source", src).Str("target", dest).Msg("copying path")
		return false, nil
	}
	if previous != src {
		return true, conflict(dest, src, previous)
	}
	if _, err := os.Lstat(dest); os.IsNotExist(err) {
		return false, nil
	}
	info, err := os.Lstat(src)
	if err != nil {
		return true, err
	}
	return !info.IsDir(), nil
}

// backup moves an existing target aside. An earlier backup is never
// replaced; the target then goes to the first free numbered sibling.
// Callers hold m.mu.
func (m *MigrationFiles) backup(target string) error {
	if _, err := os.Lstat(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat target '%s': %w", target, err)
	}

	backupPath, err := freeBackupPath(target)
	if err != nil {
		return err
	}
	if backupPath != BackupPath(target) {
		m.logger.Warn().
			Str("target", target).
			Str("existing", BackupPath(target)).
			Str("backup", backupPath).
			Msg("earlier backup kept, using numbered backup")
	}
	if err := os.Rename(target, backupPath); err != nil {
		return fmt.Errorf("failed to back up '%s': %w", target, err)
	}

	m.logger.Info().
		Str("target", target).
		Str("backup", backupPath).
		Msg("existing target backed up")
	return nil
}

// freeBackupPath returns BackupPath(target) when nothing is there, else the
// first of BackupPath(target).1, .2, ... that does not exist.
func freeBackupPath(target string) (string, error) {
	base := BackupPath(target)
	candidate := base
	for n := 1; ; n++ {
		_, err := os.Lstat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to stat backup '%s': %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s.%d", base, n)
	}
}

// Source returns the source recorded for target.
func (m *MigrationFiles) Source(target string) (string, bool) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	src, ok := m.ledger[abs]
	return src, ok
}

// Len returns the number of recorded paths.
func (m *MigrationFiles) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ledger)
}

func normalize(source, target string) (string, string, error) {
	src, err := filepath.Abs(source)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve source '%s': %w", source, err)
	}
	dst, err := filepath.Abs(target)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve target '%s': %w", target, err)
	}
	return src, dst, nil
}

func conflict(target, source, previous string) error {
	return fmt.Errorf("target %s previously copied from %s, refusing %s: %w",
		target, previous, source, transiterrors.ErrCopyConflict)
}
