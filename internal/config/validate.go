package config

import (
	"strings"
	"time"

	"github.com/mrz1836/transit/internal/errors"
)

// maxLockTimeout caps how long a run may wait for the target lock.
const maxLockTimeout = 10 * time.Minute

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - migration lock timeout must be between 1ms and 10 minutes
//   - skip task names must not be blank
//   - log rotation values must not be negative, and max size must be positive
//     when file logging is enabled
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateMigrationConfig(&cfg.Migration); err != nil {
		return err
	}

	return validateLoggingConfig(&cfg.Logging)
}

func validateMigrationConfig(cfg *MigrationConfig) error {
	if cfg.LockTimeout <= 0 || cfg.LockTimeout > maxLockTimeout {
		return errors.Wrapf(errors.ErrConfigInvalidMigration,
			"migration.lock_timeout must be between 1ms and %s, got %s", maxLockTimeout, cfg.LockTimeout)
	}

	for i, name := range cfg.SkipTasks {
		if strings.TrimSpace(name) == "" {
			return errors.Wrapf(errors.ErrConfigInvalidMigration,
				"migration.skip_tasks[%d] must not be empty", i)
		}
	}

	return nil
}

func validateLoggingConfig(cfg *LoggingConfig) error {
	if cfg.MaxBackups < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLogging,
			"logging.max_backups must not be negative, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLogging,
			"logging.max_age_days must not be negative, got %d", cfg.MaxAgeDays)
	}
	if cfg.FileEnabled && cfg.MaxSizeMB <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidLogging,
			"logging.max_size_mb must be positive when file logging is enabled, got %d", cfg.MaxSizeMB)
	}
	return nil
}
