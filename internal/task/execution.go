package task

import (
	"time"

	"github.com/mrz1836/transit/internal/domain"
)

// Execution records one task execution and its subtasks.
type Execution struct {
	Name      domain.TaskName
	Result    domain.TaskResult
	Err       error
	StartedAt time.Time
	Duration  time.Duration
	Subtasks  []*Execution
}

// Status returns StatusFailed for a failed execution, otherwise the result status.
func (e *Execution) Status() domain.Status {
	if e.Err != nil {
		return domain.StatusFailed
	}
	return e.Result.Status()
}

// Walk visits e and its descendants depth-first, in execution order.
// Returning false from fn skips the visited execution's subtasks.
func (e *Execution) Walk(fn func(ex *Execution, depth int) bool) {
	e.walk(fn, 0)
}

func (e *Execution) walk(fn func(ex *Execution, depth int) bool, depth int) {
	if !fn(e, depth) {
		return
	}
	for _, sub := range e.Subtasks {
		sub.walk(fn, depth+1)
	}
}

// Count returns how many descendants of e ended with status.
func (e *Execution) Count(status domain.Status) int {
	n := 0
	e.Walk(func(ex *Execution, depth int) bool {
		if depth > 0 && ex.Status() == status {
			n++
		}
		return true
	})
	return n
}
