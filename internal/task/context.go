package task

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/transit/internal/domain"
)

// Context is the execution-time collaborator passed to a running task.
// It runs subtasks and owns the outcome counters for them.
type Context struct {
	engine    *Engine
	name      domain.TaskName
	logger    zerolog.Logger
	execution *Execution
	counts    map[domain.Status]int
}

func newContext(e *Engine, name domain.TaskName, execution *Execution) *Context {
	return &Context{
		engine: e,
		name:   name,
		logger: e.logger.With().
			Str("run_id", e.runID).
			Str("task", name.String()).
			Logger(),
		execution: execution,
		counts:    map[domain.Status]int{},
	}
}

// Execute runs t as a subtask of the current task and records its outcome.
// Errors are returned unchanged and are not counted.
func (c *Context) Execute(ctx context.Context, t *Task) (domain.TaskResult, error) {
	return c.engine.execute(ctx, c, t)
}

// Skip records t as skipped without evaluating or running it.
func (c *Context) Skip(t *Task) {
	c.engine.recordSkipped(c, t)
}

// TaskName returns the name of the running task.
func (c *Context) TaskName() domain.TaskName {
	return c.name
}

// HasSuccessfulSubtasks reports whether any subtask succeeded.
func (c *Context) HasSuccessfulSubtasks() bool {
	return c.counts[domain.StatusSuccess] > 0
}

// Count returns how many subtasks ended with status. Failures are never counted.
func (c *Context) Count(status domain.Status) int {
	return c.counts[status]
}

// Environment returns the migration environment.
func (c *Context) Environment() Environment {
	return c.engine.env
}

// Logger returns a logger carrying the run id and task name.
func (c *Context) Logger() zerolog.Logger {
	return c.logger
}

// Console returns the interactive console, which may be nil.
func (c *Context) Console() Console {
	return c.engine.console
}

// IsInteractive reports whether a console is available for prompting.
func (c *Context) IsInteractive() bool {
	return c.engine.console != nil && c.engine.console.Interactive()
}

// Execution returns the record of the running task.
func (c *Context) Execution() *Execution {
	return c.execution
}
