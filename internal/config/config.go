// Package config provides configuration management for transit with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (TRANSIT_* prefix)
//  3. Project config (.transit/config.yaml)
//  4. Global config (~/.transit/config.yaml)
//  5. Built-in defaults
//
// The migration environment, the key/value store that skip properties are read
// from, is loaded separately by LoadEnvironment.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for transit.
type Config struct {
	// Migration contains settings that shape a migration run.
	Migration MigrationConfig `yaml:"migration" mapstructure:"migration"`

	// Logging contains settings for the rotating CLI log file.
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Report contains settings for the summary printed after a run.
	Report ReportConfig `yaml:"report" mapstructure:"report"`
}

// MigrationConfig contains settings for a migration run.
type MigrationConfig struct {
	// Interactive enables confirmation prompts when a terminal is attached.
	Interactive bool `yaml:"interactive" mapstructure:"interactive"`

	// EnvironmentFile is an optional YAML, JSON or TOML file holding the
	// migration environment, e.g. the key deployments.remove.skip.
	EnvironmentFile string `yaml:"environment_file" mapstructure:"environment_file"`

	// LockTimeout bounds how long a run waits for the target server lock.
	LockTimeout time.Duration `yaml:"lock_timeout" mapstructure:"lock_timeout"`

	// SkipTasks lists task base names disabled for every run. Each entry is
	// added to the migration environment as "<name>.skip=true".
	SkipTasks []string `yaml:"skip_tasks" mapstructure:"skip_tasks"`
}

// LoggingConfig contains settings for the CLI log file.
type LoggingConfig struct {
	// FileEnabled writes JSON logs to ~/.transit/logs/transit.log.
	FileEnabled bool `yaml:"file_enabled" mapstructure:"file_enabled"`

	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int `yaml:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `yaml:"max_backups" mapstructure:"max_backups"`

	// MaxAgeDays is the number of days rotated files are kept.
	MaxAgeDays int `yaml:"max_age_days" mapstructure:"max_age_days"`

	// Compress gzips rotated files.
	Compress bool `yaml:"compress" mapstructure:"compress"`
}

// ReportConfig contains settings for the run summary.
type ReportConfig struct {
	// ShowSkipped includes skipped tasks in the summary tree.
	ShowSkipped bool `yaml:"show_skipped" mapstructure:"show_skipped"`
}
