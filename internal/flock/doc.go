// Package flock provides cross-platform advisory file locks.
//
// The low-level Exclusive and Unlock functions wrap the platform lock calls.
// Acquire layers a lock-file protocol on top of them: a migration target
// directory is guarded by a lock file so two migrations cannot write into the
// same server at once.
//
// Usage:
//
//	lock, err := flock.Acquire(ctx, filepath.Join(target, ".transit.lock"), 5*time.Second)
//	if err != nil {
//	    // Another migration holds the target
//	}
//	defer func() { _ = lock.Release() }()
package flock
