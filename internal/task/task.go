// Package task provides the task execution engine for migrations.
//
// A Task is a named unit of work with a skip policy, optional before and
// after hooks, and a run function. Parent tasks compose subtasks and reduce
// their outcomes by a Policy. Every executed task leaves an Execution record.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors, std lib
//   - MUST NOT import: internal/resource, internal/migration, internal/cli
package task

import (
	"context"
	"fmt"

	"github.com/mrz1836/transit/internal/domain"
	transiterrors "github.com/mrz1836/transit/internal/errors"
)

// RunFunc performs a task's work and reports its outcome.
// A failure is reported by returning an error, never by a result value.
type RunFunc func(ctx context.Context, tc *Context) (domain.TaskResult, error)

// Hook runs before or after a task's RunFunc.
type Hook func(ctx context.Context, tc *Context) error

// Config describes a leaf task.
type Config struct {
	// Name identifies the task in logs, reports and skip properties. Required.
	Name domain.TaskName

	// Skip decides whether the task is skipped. Defaults to SkipIfDefaultPropertySet.
	Skip SkipPolicy

	// BeforeRun runs after the skip check and before Run.
	BeforeRun Hook

	// Run does the work. Required.
	Run RunFunc

	// AfterRun runs only when Run returned without error.
	AfterRun Hook
}

// Task is an immutable, executable unit of work.
type Task struct {
	name      domain.TaskName
	skip      SkipPolicy
	beforeRun Hook
	run       RunFunc
	afterRun  Hook
}

// New builds a task from cfg.
func New(cfg Config) (*Task, error) {
	if cfg.Name.IsZero() {
		return nil, transiterrors.ErrTaskNameEmpty
	}
	if cfg.Run == nil {
		return nil, fmt.Errorf("task %s: %w", cfg.Name, transiterrors.ErrTaskRunMissing)
	}
	skip := cfg.Skip
	if skip == nil {
		skip = SkipIfDefaultPropertySet()
	}
	return &Task{
		name:      cfg.Name,
		skip:      skip,
		beforeRun: cfg.BeforeRun,
		run:       cfg.Run,
		afterRun:  cfg.AfterRun,
	}, nil
}

// MustNew is like New but panics on an invalid config. It is meant for
// statically defined tasks.
func MustNew(cfg Config) *Task {
	t, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the task name.
func (t *Task) Name() domain.TaskName {
	return t.name
}

// Subtask is one entry of a parent task. It typically builds one or more
// tasks and runs them through tc.Execute.
type Subtask func(ctx context.Context, tc *Context) error

// Leaf wraps a single task as a subtask.
func Leaf(t *Task) Subtask {
	return func(ctx context.Context, tc *Context) error {
		_, err := tc.Execute(ctx, t)
		return err
	}
}

// Leaves wraps tasks as subtasks, preserving order.
func Leaves(tasks ...*Task) []Subtask {
	out := make([]Subtask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, Leaf(t))
	}
	return out
}

// ForEach builds one task per item with build and executes them in order.
// A nil task from build is ignored.
func ForEach[T any](items []T, build func(T) (*Task, error)) Subtask {
	return func(ctx context.Context, tc *Context) error {
		for _, item := range items {
			t, err := build(item)
			if err != nil {
				return err
			}
			if t == nil {
				continue
			}
			if _, err := tc.Execute(ctx, t); err != nil {
				return err
			}
		}
		return nil
	}
}
