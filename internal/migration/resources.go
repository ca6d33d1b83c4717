package migration

import (
	"context"

	"github.com/mrz1836/transit/internal/domain"
	"github.com/mrz1836/transit/internal/resource"
	"github.com/mrz1836/transit/internal/task"
)

// ResourcesConfig describes a parent task with one subtask per resource of
// a kind found in a configuration.
type ResourcesConfig struct {
	Name domain.TaskName
	Skip task.SkipPolicy

	// Kind and ResourceName select the resources. An empty ResourceName
	// matches every resource of Kind.
	Kind         resource.Kind
	ResourceName string

	// Subtask builds the task for one resource. Returning nil omits it.
	Subtask func(r *resource.Resource) (*task.Task, error)

	BeforeRun task.Hook
	AfterRun  task.Hook
	Policy    task.Policy
}

// NewResourcesTask builds a resource-driven parent task. Resources are
// searched when the task runs and processed in address order.
func NewResourcesTask(cfg *resource.Configuration, rc ResourcesConfig) (*task.Task, error) {
	root := cfg.Root()
	return task.NewParent(task.ParentConfig{
		Name:      rc.Name,
		Skip:      rc.Skip,
		BeforeRun: rc.BeforeRun,
		AfterRun:  rc.AfterRun,
		Policy:    rc.Policy,
		Subtasks: []task.Subtask{
			func(ctx context.Context, tc *task.Context) error {
				found, err := root.FindResources(ctx, rc.Kind, rc.ResourceName)
				if err != nil {
					return err
				}
				logger := tc.Logger()
				logger.Debug().
					Str("kind", rc.Kind.String()).
					Str("resource_name", rc.ResourceName).
					Int("found", len(found)).
					Msg("resources found")
				return task.ForEach(found, rc.Subtask)(ctx, tc)
			},
		},
	})
}

// leafName names a per-resource subtask, e.g. base(resource=/profile=full/subsystem=ejb3).
func leafName(base string, r *resource.Resource) domain.TaskName {
	return domain.NewTaskName(base, "resource", r.AbsoluteName())
}
