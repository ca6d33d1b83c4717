package config

import (
	"time"

	"github.com/mrz1836/transit/internal/constants"
)

// DefaultLockTimeout is how long a run waits for the target lock by default.
const DefaultLockTimeout = 5 * time.Second

// DefaultConfig returns a new Config with default values.
// These defaults are the base layer that config files, environment
// variables and CLI flags override.
func DefaultConfig() *Config {
	return &Config{
		Migration: MigrationConfig{
			// Prompts only appear when a terminal is attached, so this is
			// safe for unattended runs.
			Interactive: true,
			LockTimeout: DefaultLockTimeout,
			SkipTasks:   []string{},
		},
		Logging: LoggingConfig{
			FileEnabled: true,
			MaxSizeMB:   constants.LogMaxSizeMB,
			MaxBackups:  constants.LogMaxBackups,
			MaxAgeDays:  constants.LogMaxAgeDays,
			Compress:    constants.LogCompress,
		},
		Report: ReportConfig{
			ShowSkipped: true,
		},
	}
}
