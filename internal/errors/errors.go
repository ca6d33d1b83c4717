// Package errors provides centralized error handling for transit.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for error categorization.
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrSourceMissing indicates a file copy was requested for a source path
	// that does not exist.
	ErrSourceMissing = errors.New("source file does not exist")

	// ErrCopyConflict indicates a copy target was already produced in this run
	// from a different source path.
	ErrCopyConflict = errors.New("copy target previously copied from a different source")

	// ErrManagementOperation indicates the configuration store rejected or failed
	// to apply a management operation.
	ErrManagementOperation = errors.New("management operation failed")

	// ErrKindNotListable indicates the configuration store cannot list children
	// of the requested kind at an address.
	ErrKindNotListable = errors.New("child kind not listable")

	// ErrResourceNotFound indicates the addressed resource does not exist in the store.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrResourceExists indicates an attempt to add a resource that already exists.
	ErrResourceExists = errors.New("resource already exists")

	// ErrUnknownOperation indicates the store does not support the requested operation.
	ErrUnknownOperation = errors.New("unknown management operation")

	// ErrKindNotRegistered indicates a resource kind has no factory under the parent resource.
	ErrKindNotRegistered = errors.New("resource kind not registered for parent")

	// ErrSchemaInvalid indicates a resource schema declaration is inconsistent.
	ErrSchemaInvalid = errors.New("invalid resource schema")

	// ErrTaskNameEmpty indicates a task was configured without a name.
	ErrTaskNameEmpty = errors.New("task name is required")

	// ErrTaskRunMissing indicates a task was configured without a run function.
	ErrTaskRunMissing = errors.New("task run function is required")

	// ErrUnexpectedAnswer indicates the console returned an answer outside yes/no/error.
	ErrUnexpectedAnswer = errors.New("unexpected user interaction result")

	// ErrOperationCanceled indicates the user canceled an interactive prompt.
	ErrOperationCanceled = errors.New("operation canceled by user")

	// ErrInteractiveRequired indicates interactive prompts are required but not available.
	ErrInteractiveRequired = errors.New("interactive prompt required")

	// ErrUnknownProvider indicates no migration provider is registered for the source server.
	ErrUnknownProvider = errors.New("no migration provider for source server")

	// ErrProviderDuplicate indicates a provider with the same name is already registered.
	ErrProviderDuplicate = errors.New("migration provider already registered")

	// ErrInvalidVersion indicates a product version or version constraint could not be parsed.
	ErrInvalidVersion = errors.New("invalid product version")

	// ErrServerNotFound indicates a server base directory or its product descriptor is missing.
	ErrServerNotFound = errors.New("server not found")

	// ErrTargetLocked indicates another migration run holds the target server lock.
	ErrTargetLocked = errors.New("target server is locked by another migration")

	// ErrSameServer indicates source and target resolve to the same directory.
	ErrSameServer = errors.New("source and target are the same server")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidLogging indicates an invalid logging configuration value.
	ErrConfigInvalidLogging = errors.New("invalid logging configuration")

	// ErrConfigInvalidMigration indicates an invalid migration configuration value.
	ErrConfigInvalidMigration = errors.New("invalid migration configuration")

	// ErrEnvironmentFile indicates the migration environment file could not be read.
	ErrEnvironmentFile = errors.New("cannot read migration environment file")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownKind indicates a resource kind name could not be resolved.
	ErrUnknownKind = errors.New("unknown resource kind")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}

// Wrap adds context to errors at package boundaries.
// It returns nil if err is nil, allowing for safe inline usage.
//
//	if err := ledger.Copy(src, dst); err != nil {
//	    return errors.Wrap(err, "failed to migrate content")
//	}
//
// Only wrap errors at package boundaries to avoid overly nested messages.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context to errors at package boundaries.
// It returns nil if err is nil. Like Wrap, the error chain is preserved.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, err)
}
