package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice (not a map) because errors.Is() requires error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	// ===================
	// File migration
	// ===================
	{
		err: ErrSourceMissing,
		info: ErrorInfo{
			Message: "A file or directory scheduled for migration does not exist on the source server.",
			Action:  "Check the source server directory layout, or skip the task with <task>.skip=true.",
		},
	},
	{
		err: ErrCopyConflict,
		info: ErrorInfo{
			Message: "Two migration rules tried to write the same target file from different sources.",
			Action:  "Inspect the target server; files already copied and .beforeMigration backups were left in place.",
		},
	},

	// ===================
	// Configuration store
	// ===================
	{
		err: ErrManagementOperation,
		info: ErrorInfo{
			Message: "The configuration store rejected a management operation.",
			Action:  "Review the failure description above; the target configuration was left as of the last successful operation.",
		},
	},
	{
		err: ErrKindNotListable,
		info: ErrorInfo{
			Message: "The configuration store could not list resources of the requested kind.",
		},
	},
	{
		err: ErrResourceNotFound,
		info: ErrorInfo{
			Message: "A configuration resource addressed by a migration rule does not exist.",
		},
	},

	// ===================
	// Interaction
	// ===================
	{
		err: ErrOperationCanceled,
		info: ErrorInfo{
			Message: "Migration canceled by user.",
			Action:  "Re-run the migration; completed steps are idempotent.",
		},
	},
	{
		err: ErrInteractiveRequired,
		info: ErrorInfo{
			Message: "An interactive prompt is required but no terminal is attached.",
			Action:  "Use --non-interactive to migrate everything without prompting.",
		},
	},

	// ===================
	// Servers & providers
	// ===================
	{
		err: ErrUnknownProvider,
		info: ErrorInfo{
			Message: "No migration is available from the source server's product and version.",
			Action:  "Run 'transit version' to list supported source products.",
		},
	},
	{
		err: ErrServerNotFound,
		info: ErrorInfo{
			Message: "The server directory or its product.yaml descriptor was not found.",
			Action:  "Check the --source and --target paths.",
		},
	},
	{
		err: ErrTargetLocked,
		info: ErrorInfo{
			Message: "Another migration is already running against the target server.",
			Action:  "Wait for it to finish, or remove a stale .transit.lock file from the target directory.",
		},
	},
	{
		err: ErrSameServer,
		info: ErrorInfo{
			Message: "Source and target point to the same server directory.",
			Action:  "Use a separate, freshly installed target server.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrEnvironmentFile,
		info: ErrorInfo{
			Message: "The migration environment file could not be read.",
			Action:  "Check the --environment path and its YAML, JSON or TOML syntax.",
		},
	},
	{
		err: ErrConfigInvalidLogging,
		info: ErrorInfo{
			Message: "The logging configuration is invalid.",
			Action:  "Fix the logging section in .transit/config.yaml.",
		},
	},
	{
		err: ErrConfigInvalidMigration,
		info: ErrorInfo{
			Message: "The migration configuration is invalid.",
			Action:  "Fix the migration section in .transit/config.yaml.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// Direct sentinel matches are found in the map; wrapped errors fall back to
// errors.Is() traversal. Unknown errors keep their original message.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action. The action is empty when there is nothing the user can do.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
