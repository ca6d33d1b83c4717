//go:build unix

package flock_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	transiterrors "github.com/mrz1836/transit/internal/errors"
	"github.com/mrz1836/transit/internal/flock"
)

func TestAcquire(t *testing.T) {
	t.Parallel()

	t.Run("creates missing directories", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "server", ".transit.lock")

		lock, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)
		assert.Equal(t, path, lock.Path())
		require.NoError(t, lock.Release())
		require.NoError(t, lock.Release(), "second release is a no-op")
	})

	t.Run("times out while held", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".transit.lock")

		held, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)
		defer func() { _ = held.Release() }()

		_, err = flock.Acquire(context.Background(), path, 120*time.Millisecond)
		require.ErrorIs(t, err, transiterrors.ErrTargetLocked)
	})

	t.Run("honors cancellation", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".transit.lock")

		held, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)
		defer func() { _ = held.Release() }()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = flock.Acquire(ctx, path, time.Minute)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("reacquire after release", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".transit.lock")

		first, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)
		require.NoError(t, first.Release())

		second, err := flock.Acquire(context.Background(), path, time.Second)
		require.NoError(t, err)
		require.NoError(t, second.Release())
	})
}
