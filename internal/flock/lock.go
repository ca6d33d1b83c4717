package flock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	transiterrors "github.com/mrz1836/transit/internal/errors"
)

const (
	lockDirPerm  = 0o750
	lockFilePerm = 0o600
)

// retryInterval is the pause between lock attempts.
const retryInterval = 50 * time.Millisecond

// Lock is a held lock file. Release must be called exactly once.
type Lock struct {
	path string
	file *os.File
}

// Acquire opens (creating if needed) the lock file at path and takes an
// exclusive lock on it, retrying until timeout elapses or ctx is canceled.
// It fails with ErrTargetLocked when the lock stays held by someone else.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), lockDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFilePerm) //#nosec G302,G304 -- lock file needs write access, path is built by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		default:
		}

		if err := Exclusive(f.Fd()); err == nil {
			return &Lock{path: path, file: f}, nil
		}

		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, fmt.Errorf("lock %s: %w", path, transiterrors.ErrTargetLocked)
		}

		time.Sleep(retryInterval)
	}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and closes the lock file. The file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	if err := Unlock(f.Fd()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return f.Close()
}
