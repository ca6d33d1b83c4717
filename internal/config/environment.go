package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/transit/internal/constants"
	"github.com/mrz1836/transit/internal/errors"
)

// LoadEnvironment builds the migration environment for a run.
//
// Properties come from, highest precedence first:
//  1. Environment variables prefixed TRANSIT_ENV_, with "." and "-" in the
//     property name mapped to "_" (TRANSIT_ENV_DEPLOYMENTS_REMOVE_SKIP)
//  2. cfg.EnvironmentFile, any format viper reads by extension (yaml, json, toml)
//  3. cfg.SkipTasks, each defaulted to "<name>.skip=true"
//
// The returned instance satisfies task.Environment.
func LoadEnvironment(ctx context.Context, cfg MigrationConfig) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvironmentPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfg.EnvironmentFile != "" {
		v.SetConfigFile(cfg.EnvironmentFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", errors.ErrEnvironmentFile, cfg.EnvironmentFile, err)
		}
	}

	for _, name := range cfg.SkipTasks {
		v.SetDefault(strings.TrimSpace(name)+constants.SkipPropertySuffix, true)
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("environment_file", cfg.EnvironmentFile).
		Int("properties", len(v.AllKeys())).
		Msg("migration environment loaded")

	return v, nil
}
