// Package constants provides centralized constant values used throughout transit.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

// Directory names and paths used by transit for its own data.
const (
	// TransitHome is the hidden directory name where transit stores its data.
	// This directory is created in the user's home directory.
	TransitHome = ".transit"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.transit/logs/transit.log
	CLILogFileName = "transit.log"

	// GlobalConfigName is the name of the global and project configuration file.
	GlobalConfigName = "config.yaml"
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the size in megabytes at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 5

	// LogMaxAgeDays is the number of days rotated log files are kept.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// Environment variable prefixes.
const (
	// EnvPrefix prefixes environment variables that override transit's own configuration.
	EnvPrefix = "TRANSIT"

	// EnvironmentPrefix prefixes environment variables that populate the
	// migration environment, e.g. TRANSIT_ENV_DEPLOYMENTS_REMOVE_SKIP=true.
	EnvironmentPrefix = "TRANSIT_ENV"

	// HomeEnvVar overrides the transit home directory.
	HomeEnvVar = "TRANSIT_HOME"
)

// File migration constants.
const (
	// BackupSuffix is appended to a target path that is moved aside before
	// being overwritten by a file migration.
	BackupSuffix = ".beforeMigration"

	// LockFileName is the lock file created in the target server directory
	// for the duration of a migration run.
	LockFileName = ".transit.lock"
)

// Migration environment property conventions.
const (
	// SkipPropertySuffix is appended to a task's base name to build the
	// environment property that disables it.
	SkipPropertySuffix = ".skip"
)

// Server layout names.
const (
	// ProductFileName is the product descriptor stored at a server's base directory.
	ProductFileName = "product.yaml"

	// ConfigurationFileExt is the extension of configuration snapshot files.
	ConfigurationFileExt = ".yaml"
)
