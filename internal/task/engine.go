package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/transit/internal/domain"
)

// Engine executes task trees depth-first on the calling goroutine.
type Engine struct {
	env     Environment
	console Console
	logger  zerolog.Logger
	metrics Metrics
	runID   string
	now     func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEnvironment sets the migration environment.
func WithEnvironment(env Environment) EngineOption {
	return func(e *Engine) {
		e.env = env
	}
}

// WithConsole sets the interactive console.
func WithConsole(console Console) EngineOption {
	return func(e *Engine) {
		e.console = console
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) EngineOption {
	return func(e *Engine) {
		e.runID = id
	}
}

// NewEngine creates an engine. Without options it has an empty environment,
// no console and a no-op logger.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:  zerolog.Nop(),
		metrics: NoopMetrics{},
		runID:   uuid.NewString(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.env == nil {
		e.env = EmptyEnvironment()
	}
	return e
}

// RunID returns the id attached to every log event of this engine.
func (e *Engine) RunID() string {
	return e.runID
}

// Run executes root and returns its execution record. The record is returned
// even when execution fails so callers can report partial progress.
func (e *Engine) Run(ctx context.Context, root *Task) (*Execution, error) {
	exec := &Execution{Name: root.name}
	_, err := e.run(ctx, nil, root, exec)
	return exec, err
}

// execute runs t as a child of parent.
func (e *Engine) execute(ctx context.Context, parent *Context, t *Task) (domain.TaskResult, error) {
	exec := &Execution{Name: t.name}
	parent.execution.Subtasks = append(parent.execution.Subtasks, exec)
	return e.run(ctx, parent, t, exec)
}

func (e *Engine) run(ctx context.Context, parent *Context, t *Task, exec *Execution) (domain.TaskResult, error) {
	tc := newContext(e, t.name, exec)
	exec.StartedAt = e.now().UTC()
	e.metrics.TaskStarted(e.runID, t.name)

	result, err := e.lifecycle(ctx, tc, t)
	exec.Duration = e.now().Sub(exec.StartedAt)

	if err != nil {
		exec.Err = err
		tc.logger.Error().
			Err(err).
			Int64("duration_ms", exec.Duration.Milliseconds()).
			Msg("task failed")
		e.metrics.TaskCompleted(e.runID, t.name, exec.Duration, domain.StatusFailed)
		return domain.TaskResult{}, err
	}

	exec.Result = result
	if parent != nil {
		parent.counts[result.Status()]++
	}
	tc.logger.Debug().
		Str("status", result.Status().String()).
		Int64("duration_ms", exec.Duration.Milliseconds()).
		Msg("task completed")
	e.metrics.TaskCompleted(e.runID, t.name, exec.Duration, result.Status())
	return result, nil
}

func (e *Engine) lifecycle(ctx context.Context, tc *Context, t *Task) (domain.TaskResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.TaskResult{}, err
	}

	if t.skip(tc) {
		tc.logger.Debug().Msg("task skipped")
		return domain.Skipped(), nil
	}

	if t.beforeRun != nil {
		if err := t.beforeRun(ctx, tc); err != nil {
			return domain.TaskResult{}, err
		}
	}

	result, err := t.run(ctx, tc)
	if err != nil {
		return domain.TaskResult{}, err
	}

	if t.afterRun != nil {
		if err := t.afterRun(ctx, tc); err != nil {
			return domain.TaskResult{}, err
		}
	}
	return result, nil
}

// recordSkipped records t under parent as skipped without running anything.
func (e *Engine) recordSkipped(parent *Context, t *Task) {
	now := e.now().UTC()
	parent.execution.Subtasks = append(parent.execution.Subtasks, &Execution{
		Name:      t.name,
		Result:    domain.Skipped(),
		StartedAt: now,
	})
	parent.counts[domain.StatusSkipped]++
	parent.logger.Debug().Str("subtask", t.name.String()).Msg("subtask declined")
	e.metrics.TaskCompleted(e.runID, t.name, 0, domain.StatusSkipped)
}
