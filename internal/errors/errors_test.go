package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	transiterrors "github.com/mrz1836/transit/internal/errors"
)

// testError is a custom error type used to test default branches
// in UserMessage and Actionable without matching any sentinel.
type testError struct {
	msg string
}

func (e testError) Error() string {
	return e.msg
}

func TestSentinelErrors_Messages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ErrSourceMissing", transiterrors.ErrSourceMissing, "source file does not exist"},
		{"ErrCopyConflict", transiterrors.ErrCopyConflict, "copy target previously copied from a different source"},
		{"ErrManagementOperation", transiterrors.ErrManagementOperation, "management operation failed"},
		{"ErrKindNotListable", transiterrors.ErrKindNotListable, "child kind not listable"},
		{"ErrOperationCanceled", transiterrors.ErrOperationCanceled, "operation canceled by user"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		transiterrors.ErrSourceMissing,
		transiterrors.ErrCopyConflict,
		transiterrors.ErrManagementOperation,
		transiterrors.ErrKindNotListable,
		transiterrors.ErrResourceNotFound,
		transiterrors.ErrUnknownProvider,
		transiterrors.ErrTargetLocked,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b)
		}
	}
}

func TestWrap(t *testing.T) {
	t.Run("preserves error chain", func(t *testing.T) {
		wrapped := transiterrors.Wrap(transiterrors.ErrCopyConflict, "failed to migrate content")
		require.ErrorIs(t, wrapped, transiterrors.ErrCopyConflict)
		assert.Equal(t, "failed to migrate content: copy target previously copied from a different source", wrapped.Error())
	})

	t.Run("nil error", func(t *testing.T) {
		assert.NoError(t, transiterrors.Wrap(nil, "context"))
	})

	t.Run("multiple wraps", func(t *testing.T) {
		inner := transiterrors.Wrap(transiterrors.ErrSourceMissing, "copy deployments")
		outer := transiterrors.Wrap(inner, "migrate server")
		require.ErrorIs(t, outer, transiterrors.ErrSourceMissing)
		assert.Contains(t, outer.Error(), "migrate server: copy deployments")
	})
}

func TestWrapf(t *testing.T) {
	wrapped := transiterrors.Wrapf(transiterrors.ErrResourceNotFound, "read %s", "/profile=full")
	require.ErrorIs(t, wrapped, transiterrors.ErrResourceNotFound)
	assert.Equal(t, "read /profile=full: resource not found", wrapped.Error())
	assert.NoError(t, transiterrors.Wrapf(nil, "read %s", "x"))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"direct sentinel", transiterrors.ErrTargetLocked, "Another migration is already running against the target server."},
		{"wrapped sentinel", fmt.Errorf("copy /a: %w", transiterrors.ErrSourceMissing), "A file or directory scheduled for migration does not exist on the source server."},
		{"unknown error", testError{msg: "boom"}, "boom"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, transiterrors.UserMessage(tc.err))
		})
	}
}

func TestActionable(t *testing.T) {
	msg, action := transiterrors.Actionable(transiterrors.ErrCopyConflict)
	assert.NotEmpty(t, msg)
	assert.Contains(t, action, ".beforeMigration")

	msg, action = transiterrors.Actionable(transiterrors.ErrKindNotListable)
	assert.NotEmpty(t, msg)
	assert.Empty(t, action)

	msg, action = transiterrors.Actionable(nil)
	assert.Empty(t, msg)
	assert.Empty(t, action)
}

func TestExitCode2Error(t *testing.T) {
	err := transiterrors.NewExitCode2Error(transiterrors.ErrInvalidArgument)
	assert.True(t, transiterrors.IsExitCode2Error(err))
	assert.True(t, transiterrors.IsExitCode2Error(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, transiterrors.IsExitCode2Error(transiterrors.ErrInvalidArgument))
	require.ErrorIs(t, err, transiterrors.ErrInvalidArgument)
}
