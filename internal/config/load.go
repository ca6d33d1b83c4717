package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/transit/internal/constants"
	"github.com/mrz1836/transit/internal/errors"
)

// newViperInstance creates a new Viper instance with the TRANSIT_ env prefix,
// key replacer and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (TRANSIT_* prefix)
//  2. Project config (.transit/config.yaml)
//  3. Global config (~/.transit/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead.
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Bool("migration.interactive", cfg.Migration.Interactive).
		Dur("migration.lock_timeout", cfg.Migration.LockTimeout).
		Strs("migration.skip_tasks", cfg.Migration.SkipTasks).
		Bool("logging.file_enabled", cfg.Logging.FileEnabled).
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig loads ~/.transit/config.yaml when it exists.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, ok := getGlobalConfigPathIfExists()
	if !ok {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// getGlobalConfigPathIfExists returns the global config path if it exists.
func getGlobalConfigPathIfExists() (string, bool) {
	globalDir, err := GlobalConfigDir()
	if err != nil {
		return "", false
	}

	globalConfigPath := filepath.Join(globalDir, constants.GlobalConfigName)
	if !fileExists(globalConfigPath) {
		return "", false
	}

	return globalConfigPath, true
}

// loadProjectConfig merges .transit/config.yaml over the global layer when it exists.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
//
// Only non-zero values in overrides are applied. Boolean fields cannot be
// overridden to false this way; the CLI sets them directly when the flag
// was changed:
//
//	if cmd.Flags().Changed("non-interactive") {
//	    cfg.Migration.Interactive = false
//	}
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// Keys must match the mapstructure tag names and the values of DefaultConfig.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("migration.interactive", def.Migration.Interactive)
	v.SetDefault("migration.environment_file", def.Migration.EnvironmentFile)
	v.SetDefault("migration.lock_timeout", def.Migration.LockTimeout.String())
	v.SetDefault("migration.skip_tasks", def.Migration.SkipTasks)

	v.SetDefault("logging.file_enabled", def.Logging.FileEnabled)
	v.SetDefault("logging.max_size_mb", def.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", def.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", def.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", def.Logging.Compress)

	v.SetDefault("report.show_skipped", def.Report.ShowSkipped)
}

func applyOverrides(cfg, overrides *Config) {
	if overrides.Migration.EnvironmentFile != "" {
		cfg.Migration.EnvironmentFile = overrides.Migration.EnvironmentFile
	}
	if overrides.Migration.LockTimeout != 0 {
		cfg.Migration.LockTimeout = overrides.Migration.LockTimeout
	}
	if len(overrides.Migration.SkipTasks) > 0 {
		cfg.Migration.SkipTasks = append(cfg.Migration.SkipTasks, overrides.Migration.SkipTasks...)
	}
}

// viperDecoderOption decodes duration strings ("5s") and comma-separated
// lists, which is how TRANSIT_MIGRATION_SKIP_TASKS arrives from the environment.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}
