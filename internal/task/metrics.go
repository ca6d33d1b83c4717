package task

import (
	"time"

	"github.com/mrz1836/transit/internal/domain"
)

// Metrics collects metrics about task execution.
// Implementations can forward these to monitoring systems or build reports.
type Metrics interface {
	// TaskStarted is called before a task's skip policy is evaluated.
	TaskStarted(runID string, name domain.TaskName)

	// TaskCompleted is called when a task finishes. Failed tasks report StatusFailed.
	TaskCompleted(runID string, name domain.TaskName, duration time.Duration, status domain.Status)
}

// NoopMetrics is a no-op implementation of Metrics for default behavior.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Metrics interface.
var _ Metrics = (*NoopMetrics)(nil)

// TaskStarted implements Metrics.
func (NoopMetrics) TaskStarted(string, domain.TaskName) {}

// TaskCompleted implements Metrics.
func (NoopMetrics) TaskCompleted(string, domain.TaskName, time.Duration, domain.Status) {}
