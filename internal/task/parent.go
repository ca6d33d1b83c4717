package task

import (
	"context"

	"github.com/mrz1836/transit/internal/domain"
)

// Policy reduces subtask outcomes to a parent result.
type Policy int

const (
	// SucceedIfHasSuccessfulSubtasks succeeds when at least one subtask
	// succeeded and is skipped otherwise.
	SucceedIfHasSuccessfulSubtasks Policy = iota

	// SucceedAlways succeeds once every subtask ran without error.
	SucceedAlways
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case SucceedAlways:
		return "succeed-always"
	case SucceedIfHasSuccessfulSubtasks:
		return "succeed-if-has-successful-subtasks"
	default:
		return "unknown"
	}
}

// Reduce computes the parent result from the subtask counters of tc.
func (p Policy) Reduce(tc *Context) domain.TaskResult {
	if p == SucceedAlways || tc.HasSuccessfulSubtasks() {
		return domain.Success()
	}
	return domain.Skipped()
}

// ParentConfig describes a task that runs subtasks in order.
type ParentConfig struct {
	Name      domain.TaskName
	Skip      SkipPolicy
	BeforeRun Hook
	AfterRun  Hook
	Subtasks  []Subtask
	Policy    Policy
}

// NewParent builds a parent task. The first subtask error aborts the
// remaining subtasks and fails the parent.
func NewParent(cfg ParentConfig) (*Task, error) {
	subtasks := append([]Subtask(nil), cfg.Subtasks...)
	policy := cfg.Policy

	return New(Config{
		Name:      cfg.Name,
		Skip:      cfg.Skip,
		BeforeRun: cfg.BeforeRun,
		AfterRun:  cfg.AfterRun,
		Run: func(ctx context.Context, tc *Context) (domain.TaskResult, error) {
			for _, subtask := range subtasks {
				if err := subtask(ctx, tc); err != nil {
					return domain.TaskResult{}, err
				}
			}
			return policy.Reduce(tc), nil
		},
	})
}
