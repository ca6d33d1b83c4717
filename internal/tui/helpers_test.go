package tui

import (
	"os"
	"testing"
)

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

// plain disables colors for the duration of the test.
func plain(t *testing.T) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
}
