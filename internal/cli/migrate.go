package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/transit/internal/config"
	"github.com/mrz1836/transit/internal/errors"
	"github.com/mrz1836/transit/internal/migration"
	"github.com/mrz1836/transit/internal/signal"
	"github.com/mrz1836/transit/internal/task"
	"github.com/mrz1836/transit/internal/tui"
)

// migrateOptions holds the flags of the migrate command.
type migrateOptions struct {
	source         string
	target         string
	environment    string
	nonInteractive bool
	skip           []string
	lockTimeout    time.Duration
}

// AddMigrateCommand adds the migrate command to the root command.
func AddMigrateCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newMigrateCmd(flags, nil))
}

// newMigrateCmd builds the migrate command. console, when non-nil, replaces
// the terminal console.
func newMigrateCmd(flags *GlobalFlags, console task.Console) *cobra.Command {
	opts := &migrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate a source server into a target server",
		Long: `Migrate every configuration, the managed content and the scanned deployments
of the source server into the target server.

Tasks can be disabled through the migration environment, e.g.

  transit migrate --source old --target new --skip deployments.remove
  TRANSIT_ENV_DEPLOYMENTS_REMOVE_SKIP=true transit migrate --source old --target new`,
		Example: `  transit migrate --source /opt/wildfly-10.1.0.Final --target /opt/wildfly-11.0.0.Final
  transit migrate --source old --target new --environment migration.yaml --non-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), cmd, flags, opts, console)
		},
	}

	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "source server base directory")
	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "target server base directory")
	cmd.Flags().StringVarP(&opts.environment, "environment", "e", "", "migration environment file (yaml, json or toml)")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "migrate everything without prompting")
	cmd.Flags().StringSliceVar(&opts.skip, "skip", nil, "task base names to skip (repeatable)")
	cmd.Flags().DurationVar(&opts.lockTimeout, "lock-timeout", 0, "how long to wait for the target lock")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func runMigrate(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags, opts *migrateOptions, console task.Console) error {
	logger := GetLogger()

	cfg, err := config.LoadWithOverrides(ctx, &config.Config{
		Migration: config.MigrationConfig{
			EnvironmentFile: opts.environment,
			LockTimeout:     opts.lockTimeout,
			SkipTasks:       opts.skip,
		},
	})
	if err != nil {
		return err
	}
	if opts.nonInteractive {
		cfg.Migration.Interactive = false
	}

	env, err := config.LoadEnvironment(ctx, cfg.Migration)
	if err != nil {
		return err
	}

	handler := signal.NewHandler(ctx)
	defer handler.Stop()

	migratorOpts := []migration.Option{
		migration.WithEnvironment(env),
		migration.WithLogger(logger),
		migration.WithLockTimeout(cfg.Migration.LockTimeout),
	}
	if c := selectConsole(cfg.Migration.Interactive, flags.Output, console); c != nil {
		migratorOpts = append(migratorOpts, migration.WithConsole(c))
	}

	result, err := migration.NewMigrator(migration.DefaultRegistry(), migratorOpts...).
		Migrate(handler.Context(), migration.Request{Source: opts.source, Target: opts.target})
	if err != nil && handler.WasInterrupted() {
		err = fmt.Errorf("%w: %w", errors.ErrOperationCanceled, err)
	}

	if result != nil {
		if reportErr := writeReport(cmd.OutOrStdout(), flags.Output, newReport(result, err), cfg.Report); reportErr != nil && err == nil {
			err = reportErr
		}
	}
	return err
}

// selectConsole returns the console used for confirmations, or nil to run
// without prompting. JSON output never prompts.
func selectConsole(interactive bool, output string, override task.Console) task.Console {
	if !interactive || output == OutputJSON {
		return nil
	}
	if override != nil {
		return override
	}
	console := tui.NewConsole()
	if !console.Interactive() {
		return nil
	}
	return console
}

func newReport(result *migration.Result, err error) tui.Report {
	return tui.Report{
		RunID:     result.RunID,
		Provider:  result.Provider,
		Source:    result.Source.String(),
		Target:    result.Target.String(),
		Execution: result.Execution,
		Saved:     result.Saved,
		Err:       err,
	}
}

func writeReport(w io.Writer, output string, report tui.Report, cfg config.ReportConfig) error {
	if output == OutputJSON {
		return tui.NewJSONOutput(w).JSON(report.JSONData())
	}
	tui.RenderReport(w, report, tui.ReportOptions{ShowSkipped: cfg.ShowSkipped})
	return nil
}
