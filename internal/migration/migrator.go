// Package migration migrates a source server installation into a target one.
//
// A Migrator resolves the Provider for the source product, locks the target,
// builds the root task (configuration files of each type, managed content,
// scanned deployments) and runs it on a task.Engine. Configuration files are
// copied through a files.MigrationFiles ledger, loaded into a store and
// rewritten by the provider's rules.
//
// Import rules:
//   - CAN import: every internal package except internal/cli and internal/tui
//   - MUST NOT import: internal/cli, internal/tui
package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/transit/internal/constants"
	"github.com/mrz1836/transit/internal/domain"
	transiterrors "github.com/mrz1836/transit/internal/errors"
	"github.com/mrz1836/transit/internal/files"
	"github.com/mrz1836/transit/internal/flock"
	"github.com/mrz1836/transit/internal/resource"
	"github.com/mrz1836/transit/internal/store"
	"github.com/mrz1836/transit/internal/task"
)

// defaultLockTimeout applies when WithLockTimeout is not given.
const defaultLockTimeout = 5 * time.Second

// Request names the servers of one migration.
type Request struct {
	Source string
	Target string
}

// Result describes a finished (or failed) migration run.
type Result struct {
	RunID    string
	Provider string
	Source   Product
	Target   Product

	// Execution is the root task record. It is set whenever the root task
	// started, including runs that failed part way.
	Execution *task.Execution

	// Saved lists the migrated configuration files written to the target.
	Saved []string
}

// Migrator runs migrations with a fixed provider registry and environment.
type Migrator struct {
	registry    *Registry
	env         task.Environment
	console     task.Console
	logger      zerolog.Logger
	metrics     task.Metrics
	schema      *resource.Schema
	lockTimeout time.Duration
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithEnvironment sets the migration environment.
func WithEnvironment(env task.Environment) Option {
	return func(m *Migrator) {
		m.env = env
	}
}

// WithConsole sets the console used for confirmations.
func WithConsole(console task.Console) Option {
	return func(m *Migrator) {
		m.console = console
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Migrator) {
		m.logger = logger
	}
}

// WithMetrics sets the task metrics sink.
func WithMetrics(metrics task.Metrics) Option {
	return func(m *Migrator) {
		m.metrics = metrics
	}
}

// WithSchema overrides the resource schema.
func WithSchema(schema *resource.Schema) Option {
	return func(m *Migrator) {
		m.schema = schema
	}
}

// WithLockTimeout bounds the wait for the target lock.
func WithLockTimeout(d time.Duration) Option {
	return func(m *Migrator) {
		m.lockTimeout = d
	}
}

// NewMigrator creates a migrator over registry.
func NewMigrator(registry *Registry, opts ...Option) *Migrator {
	m := &Migrator{
		registry:    registry,
		env:         task.EmptyEnvironment(),
		logger:      zerolog.Nop(),
		metrics:     task.NoopMetrics{},
		schema:      resource.DefaultSchema(),
		lockTimeout: defaultLockTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// run holds the per-migration state shared by the root task's subtasks.
type run struct {
	source   *Server
	target   *Server
	provider *Provider
	files    *files.MigrationFiles
	saved    []string
}

// Migrate migrates req.Source into req.Target. The returned Result is
// non-nil once the servers and provider are resolved, even on failure.
func (m *Migrator) Migrate(ctx context.Context, req Request) (*Result, error) {
	source, err := OpenServer(req.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	target, err := OpenServer(req.Target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	if sameDirectory(source.BaseDir(), target.BaseDir()) {
		return nil, fmt.Errorf("%w: %s", transiterrors.ErrSameServer, source.BaseDir())
	}

	provider, err := m.registry.Resolve(source.Product())
	if err != nil {
		return nil, err
	}

	engine := task.NewEngine(
		task.WithEnvironment(m.env),
		task.WithConsole(m.console),
		task.WithLogger(m.logger),
		task.WithMetrics(m.metrics),
	)
	logger := m.logger.With().
		Str("run_id", engine.RunID()).
		Str("source", source.BaseDir()).
		Str("target", target.BaseDir()).
		Str("provider", provider.Name).
		Logger()

	result := &Result{
		RunID:    engine.RunID(),
		Provider: provider.Name,
		Source:   source.Product(),
		Target:   target.Product(),
	}

	lock, err := flock.Acquire(ctx, filepath.Join(target.BaseDir(), constants.LockFileName), m.lockTimeout)
	if err != nil {
		return result, err
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil {
			logger.Warn().Err(releaseErr).Msg("failed to release target lock")
		}
	}()

	r := &run{
		source:   source,
		target:   target,
		provider: provider,
		files:    files.New(files.WithLogger(logger)),
	}

	root, err := m.rootTask(r)
	if err != nil {
		return result, err
	}

	logger.Info().
		Str("source_product", source.Product().String()).
		Str("target_product", target.Product().String()).
		Msg("migration starting")

	result.Execution, err = engine.Run(ctx, root)
	result.Saved = r.saved
	if err != nil {
		logger.Error().Err(err).Msg("migration failed")
		return result, err
	}

	logger.Info().
		Str("status", result.Execution.Status().String()).
		Int("saved", len(r.saved)).
		Msg("migration finished")
	return result, nil
}

// rootTask builds the task tree of one run.
func (m *Migrator) rootTask(r *run) (*task.Task, error) {
	subtasks := make([]task.Subtask, 0, len(ConfigTypes)+2)
	for _, t := range ConfigTypes {
		configs, err := m.configurationsTask(r, t)
		if err != nil {
			return nil, err
		}
		subtasks = append(subtasks, task.Leaf(configs))
	}

	content, err := copyDirTask(r, "migrate-content", r.source.ContentDir(), r.target.ContentDir())
	if err != nil {
		return nil, err
	}
	deployments, err := copyDirTask(r, "migrate-deployments", r.source.DeploymentsDir(), r.target.DeploymentsDir())
	if err != nil {
		return nil, err
	}
	subtasks = append(subtasks, task.Leaf(content), task.Leaf(deployments))

	return task.NewParent(task.ParentConfig{
		Name:     domain.NewTaskName("server-migration", "provider", r.provider.Name),
		Skip:     task.NeverSkip(),
		Subtasks: subtasks,
	})
}

// configurationsTask migrates every configuration file of type t, asking for
// confirmation when a console is attached.
func (m *Migrator) configurationsTask(r *run, t ConfigType) (*task.Task, error) {
	sources, err := r.source.ConfigurationFiles(t)
	if err != nil {
		return nil, err
	}

	units := make([]*task.Task, 0, len(sources))
	names := make(map[*task.Task]ConfigFile, len(sources))
	for _, file := range sources {
		unit, err := m.configurationTask(r, file)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
		names[unit] = file
	}

	return task.NewConfirm(task.ConfirmConfig{
		Name:       domain.NewTaskName(string(t) + "-configurations"),
		Units:      units,
		ConfirmAll: fmt.Sprintf("Migrate all %s configurations?", t),
		Prompt: func(unit *task.Task) string {
			return fmt.Sprintf("Migrate configuration %s?", names[unit])
		},
	})
}

// configurationTask copies one configuration file into the target, applies
// the provider's rules and saves the result.
func (m *Migrator) configurationTask(r *run, file ConfigFile) (*task.Task, error) {
	targetPath := filepath.Join(r.target.ConfigurationDir(file.Type), file.Name)

	return task.New(task.Config{
		Name: domain.NewTaskName(string(file.Type)+"-configuration", "name", file.Name),
		Run: func(ctx context.Context, tc *task.Context) (domain.TaskResult, error) {
			logger := tc.Logger()

			if err := r.files.Copy(ctx, file.Path, targetPath); err != nil {
				return domain.TaskResult{}, err
			}

			st, err := store.Load(ctx, targetPath, store.WithLogger(logger))
			if err != nil {
				return domain.TaskResult{}, err
			}
			cfg := resource.NewConfiguration(file.Name, file.Type.Kind(), st,
				resource.WithSchema(m.schema),
				resource.WithLogger(logger),
			)

			for _, rule := range r.provider.RulesFor(file.Type) {
				t, err := rule(cfg)
				if err != nil {
					return domain.TaskResult{}, err
				}
				if _, err := tc.Execute(ctx, t); err != nil {
					return domain.TaskResult{}, err
				}
			}

			if err := st.Save(ctx); err != nil {
				return domain.TaskResult{}, err
			}
			r.saved = append(r.saved, targetPath)
			logger.Info().Str("path", targetPath).Msg("configuration migrated")
			return domain.Success(), nil
		},
	})
}

// copyDirTask copies a directory tree through the ledger. A missing source
// directory skips the task.
func copyDirTask(r *run, name, source, target string) (*task.Task, error) {
	return task.New(task.Config{
		Name: domain.NewTaskName(name),
		Run: func(ctx context.Context, tc *task.Context) (domain.TaskResult, error) {
			logger := tc.Logger()
			if _, err := os.Stat(source); err != nil {
				if os.IsNotExist(err) {
					logger.Debug().Str("path", source).Msg("nothing to migrate")
					return domain.Skipped(), nil
				}
				return domain.TaskResult{}, transiterrors.Wrapf(err, "stat %s", source)
			}
			if err := r.files.Copy(ctx, source, target); err != nil {
				return domain.TaskResult{}, err
			}
			logger.Info().Str("source", source).Str("target", target).Msg("directory migrated")
			return domain.Success(), nil
		},
	})
}
