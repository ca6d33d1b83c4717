package migration

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/mrz1836/transit/internal/domain"
	"github.com/mrz1836/transit/internal/logging"
	"github.com/mrz1836/transit/internal/management"
	"github.com/mrz1836/transit/internal/resource"
	"github.com/mrz1836/transit/internal/task"
)

// Attribute and resource names used by the rules.
const (
	attrPermgenSize      = "permgen-size"
	attrMaxPermgenSize   = "max-permgen-size"
	attrMulticastAddress = "multicast-address"
	attrInterface        = "interface"
	attrInetAddress      = "inet-address"
	attrModule           = "module"

	privateInterface        = "private"
	privateInterfaceAddress = "${jboss.bind.address.private:127.0.0.1}"
)

// jgroupsSocketBindings are moved to the private interface.
//
//nolint:gochecknoglobals // read-only rule table
var jgroupsSocketBindings = []string{"jgroups-mping", "jgroups-tcp", "jgroups-tcp-fd", "jgroups-udp", "jgroups-udp-fd"}

// defined reports whether node has a non-nil attribute.
func defined(node *management.Node, name string) bool {
	v, ok := node.Attribute(name)
	return ok && v != nil
}

// isExpression reports whether an attribute value is a ${...} expression.
func isExpression(value string) bool {
	return strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}")
}

// RemoveDeployments removes every deployment and deployment overlay from a
// configuration. Deployed content is not migrated with the configuration.
func RemoveDeployments(cfg *resource.Configuration) (*task.Task, error) {
	remove := func(prefix string) func(r *resource.Resource) (*task.Task, error) {
		return func(r *resource.Resource) (*task.Task, error) {
			return task.New(task.Config{
				Name: domain.NewTaskName(prefix + "." + r.Name() + ".remove"),
				Run: func(ctx context.Context, tc *task.Context) (domain.TaskResult, error) {
					if err := r.Remove(ctx); err != nil {
						return domain.TaskResult{}, err
					}
					logger := tc.Logger()
					logger.Info().Str("resource", r.AbsoluteName()).Msgf("removed %s configuration", r.Kind())
					return domain.Success(), nil
				},
			})
		}
	}

	root := cfg.Root()
	find := func(kind resource.Kind, prefix string) task.Subtask {
		return func(ctx context.Context, tc *task.Context) error {
			found, err := root.FindResources(ctx, kind, "")
			if err != nil {
				return err
			}
			return task.ForEach(found, remove(prefix))(ctx, tc)
		}
	}

	return task.NewParent(task.ParentConfig{
		Name: domain.NewTaskName("deployments.remove"),
		Subtasks: []task.Subtask{
			find(resource.KindDeployment, "deployment"),
			find(resource.KindDeploymentOverlay, "deployment-overlay"),
		},
		BeforeRun: logHook("deployments removal starting"),
		AfterRun:  logHook("deployments removal done"),
	})
}

// RemovePermgenAttributesFromJVMs undefines the permgen sizing attributes of
// every JVM, which newer runtimes reject.
func RemovePermgenAttributesFromJVMs(cfg *resource.Configuration) (*task.Task, error) {
	return NewResourcesTask(cfg, ResourcesConfig{
		Name: domain.NewTaskName("remove-permgen-attributes-from-jvms"),
		Kind: resource.KindJVM,
		Subtask: func(r *resource.Resource) (*task.Task, error) {
			return task.New(task.Config{
				Name: leafName("remove-permgen-attributes-from-jvm", r),
				Run: func(ctx context.Context, tc *task.Context) (domain.TaskResult, error) {
					node, err := r.ReadConfiguration(ctx)
					if err != nil {
						return domain.TaskResult{}, err
					}
					var steps []management.Operation
					for _, attr := range []string{attrPermgenSize, attrMaxPermgenSize} {
						if defined(node, attr) {
							steps = append(steps, management.UndefineAttribute(r.Address(), attr))
						}
					}
					if len(steps) == 0 {
						return domain.Skipped(), nil
					}
					if _, err := r.Configuration().Client().Execute(ctx, management.Composite(steps...)); err != nil {
						return domain.TaskResult{}, err
					}
					logger := tc.Logger()
					logger.Info().Str("resource", r.AbsoluteName()).Msg("permgen attributes removed from jvm")
					return domain.Success(), nil
				},
			})
		},
	})
}

// AddSocketBindingMulticastAddressExpressions turns the literal multicast
// address of the modcluster socket binding into an overridable expression.
func AddSocketBindingMulticastAddressExpressions(cfg *resource.Configuration) (*task.Task, error) {
	const binding = "modcluster"
	// Property name as published by the target product, spelling included.
	property := "jboss." + binding + ".multicast.adress"

	return NewResourcesTask(cfg, ResourcesConfig{
		Name:         domain.NewTaskName("add-socket-binding-multicast-address-expressions"),
		Kind:         resource.KindSocketBinding,
		ResourceName: binding,
		Subtask: func(r *resource.Resource) (*task.Task, error) {
			return task.New(task.Config{
				Name: leafName("add-"+binding+"-multicast-address-expression", r),
				Run: func(ctx context.Context, tc *task.Context) (domain.TaskResult, error) {
					node, err := r.ReadConfiguration(ctx)
					if err != nil {
						return domain.TaskResult{}, err
					}
					logger := tc.Logger()
					if !defined(node, attrMulticastAddress) {
						logger.Debug().Str("resource", r.AbsoluteName()).Msg("no multicast address defined")
						return domain.Skipped(), nil
					}
					current := fmt.Sprint(node.Attributes[attrMulticastAddress])
					if isExpression(current) {
						logger.Debug().Str("resource", r.AbsoluteName()).Str("value", current).Msg("multicast address already an expression")
						return domain.Skipped(), nil
					}
					expression := "${" + property + ":" + current + "}"
					if err := r.WriteAttribute(ctx, attrMulticastAddress, expression); err != nil {
						return domain.TaskResult{}, err
					}
					logger.Info().Str("resource", r.AbsoluteName()).Str("value", expression).Msg("multicast address expression set")
					return domain.Success(), nil
				},
			})
		},
		AfterRun: func(_ context.Context, tc *task.Context) error {
			logger := tc.Logger()
			if tc.HasSuccessfulSubtasks() {
				logger.Info().Msg("socket binding multicast address expressions added")
			} else {
				logger.Info().Msg("no socket binding multicast address expressions added")
			}
			return nil
		},
	})
}

// SetupPrivateInterface adds the "private" interface when any jgroups socket
// binding exists, then binds the jgroups socket bindings of every group to it.
func SetupPrivateInterface(cfg *resource.Configuration) (*task.Task, error) {
	const base = "setup-private-interface"
	root := cfg.Root()

	jgroupsBindings := func(ctx context.Context, group *resource.Resource) ([]*resource.Resource, error) {
		bindings, err := group.ChildResources(ctx, resource.KindSocketBinding)
		if err != nil {
			return nil, err
		}
		return slices.DeleteFunc(bindings, func(b *resource.Resource) bool {
			return !slices.Contains(jgroupsSocketBindings, b.Name())
		}), nil
	}

	addInterface := task.MustNew(task.Config{
		Name: domain.NewTaskName("add-interface"),
		Skip: task.SkipIfPropertySet(base + ".add-interface.skip"),
		Run: func(ctx context.Context, tc *task.Context) (domain.TaskResult, error) {
			logger := tc.Logger()
			exists, err := root.HasChild(ctx, resource.KindInterface, privateInterface)
			if err != nil {
				return domain.TaskResult{}, err
			}
			if exists {
				logger.Debug().Msg("private interface already present")
				return domain.Skipped(), nil
			}

			groups, err := root.FindResources(ctx, resource.KindSocketBindingGroup, "")
			if err != nil {
				return domain.TaskResult{}, err
			}
			needed := false
			for _, group := range groups {
				bindings, err := jgroupsBindings(ctx, group)
				if err != nil {
					return domain.TaskResult{}, err
				}
				if len(bindings) > 0 {
					needed = true
					break
				}
			}
			if !needed {
				logger.Debug().Msg("no jgroups socket bindings, private interface not needed")
				return domain.Skipped(), nil
			}

			if _, err := root.AddChild(ctx, resource.KindInterface, privateInterface,
				map[string]any{attrInetAddress: privateInterfaceAddress}); err != nil {
				return domain.TaskResult{}, err
			}
			logger.Info().Str("interface", privateInterface).Msg("interface added")
			return domain.Success(), nil
		},
	})

	updateGroup := func(group *resource.Resource) (*task.Task, error) {
		return task.New(task.Config{
			Name: domain.NewTaskName("update-socket-binding-group", "name", group.Name()),
			Run: func(ctx context.Context, tc *task.Context) (domain.TaskResult, error) {
				bindings, err := jgroupsBindings(ctx, group)
				if err != nil {
					return domain.TaskResult{}, err
				}
				logger := tc.Logger()
				updated := false
				for _, b := range bindings {
					node, err := b.ReadConfiguration(ctx)
					if err != nil {
						return domain.TaskResult{}, err
					}
					if current, _ := node.StringAttribute(attrInterface); current == privateInterface {
						continue
					}
					if err := b.WriteAttribute(ctx, attrInterface, privateInterface); err != nil {
						return domain.TaskResult{}, err
					}
					logger.Info().Str("resource", b.AbsoluteName()).Msg("socket binding moved to private interface")
					updated = true
				}
				if !updated {
					return domain.Skipped(), nil
				}
				return domain.Success(), nil
			},
		})
	}

	updateGroups, err := NewResourcesTask(cfg, ResourcesConfig{
		Name:    domain.NewTaskName("update-socket-binding-groups"),
		Skip:    task.SkipIfPropertySet(base + ".update-socket-binding-groups.skip"),
		Kind:    resource.KindSocketBindingGroup,
		Subtask: updateGroup,
	})
	if err != nil {
		return nil, err
	}

	return task.NewParent(task.ParentConfig{
		Name:      domain.NewTaskName(base),
		Subtasks:  task.Leaves(addInterface, updateGroups),
		BeforeRun: logHook("private interface setup starting"),
		AfterRun:  logHook("private interface setup done"),
	})
}

// SubsystemSpec describes a subsystem added by AddSubsystem.
type SubsystemSpec struct {
	// Extension is the module providing the subsystem, added when missing.
	Extension string

	// Subsystem is the subsystem resource name.
	Subsystem string

	// Attributes are set on the subsystem resource when it is added.
	Attributes map[string]any

	// Children are added below the subsystem in the same atomic operation.
	// Addresses are relative to the subsystem.
	Children []ChildSpec
}

// ChildSpec is a resource added below a new subsystem.
type ChildSpec struct {
	Address    domain.Address
	Attributes map[string]any
}

// AddSubsystem returns a rule adding spec's extension and subsystem to every
// subsystem holder of a configuration (the root, or each profile of a
// domain) that lacks it.
func AddSubsystem(spec SubsystemSpec) Rule {
	return func(cfg *resource.Configuration) (*task.Task, error) {
		root := cfg.Root()

		addExtension := task.MustNew(task.Config{
			Name: domain.NewTaskName("add-extension", "name", spec.Extension),
			Run: func(ctx context.Context, tc *task.Context) (domain.TaskResult, error) {
				exists, err := root.HasChild(ctx, resource.KindExtension, spec.Extension)
				if err != nil {
					return domain.TaskResult{}, err
				}
				if exists {
					return domain.Skipped(), nil
				}
				if _, err := root.AddChild(ctx, resource.KindExtension, spec.Extension,
					map[string]any{attrModule: spec.Extension}); err != nil {
					return domain.TaskResult{}, err
				}
				logger := tc.Logger()
				logger.Info().Str("extension", spec.Extension).Msg("extension added")
				return domain.Success(), nil
			},
		})

		addConfig := func(holder *resource.Resource) (*task.Task, error) {
			return task.New(task.Config{
				Name: domain.NewTaskName("add-subsystem-config", "name", holder.AbsoluteName()),
				Run: func(ctx context.Context, tc *task.Context) (domain.TaskResult, error) {
					logger := tc.Logger()
					exists, err := holder.HasChild(ctx, resource.KindSubsystem, spec.Subsystem)
					if err != nil {
						return domain.TaskResult{}, err
					}
					if exists {
						logger.Info().Str("subsystem", spec.Subsystem).Msg("subsystem already exists")
						return domain.Skipped(), nil
					}
					address := holder.ChildAddress(resource.KindSubsystem, spec.Subsystem)
					steps := []management.Operation{management.Add(address, spec.Attributes)}
					for _, child := range spec.Children {
						steps = append(steps, management.Add(address.Concat(child.Address), child.Attributes))
					}
					if _, err := cfg.Client().Execute(ctx, management.Composite(steps...)); err != nil {
						return domain.TaskResult{}, err
					}
					logger.Info().Str("resource", address.String()).Msg("subsystem added")
					return domain.Success(), nil
				},
			})
		}

		addConfigs := func(ctx context.Context, tc *task.Context) error {
			holders, err := subsystemHolders(ctx, root)
			if err != nil {
				return err
			}
			return task.ForEach(holders, addConfig)(ctx, tc)
		}

		return task.NewParent(task.ParentConfig{
			Name:     domain.NewTaskName("subsystem."+spec.Subsystem+".add"),
			Subtasks: []task.Subtask{task.Leaf(addExtension), addConfigs},
		})
	}
}

// subsystemHolders returns the resources subsystems live under.
func subsystemHolders(ctx context.Context, root *resource.Resource) ([]*resource.Resource, error) {
	if root.Factory(resource.KindSubsystem) != nil {
		return []*resource.Resource{root}, nil
	}
	return root.FindResources(ctx, resource.KindProfile, "")
}

// SubsystemUpdate updates one subsystem configuration. env reads the
// subsystem-scoped environment, see subsystemProperty.
type SubsystemUpdate func(ctx context.Context, tc *task.Context, r *resource.Resource, node *management.Node, env func(key string) string) (domain.TaskResult, error)

// UpdateSubsystem returns a rule running update against every subsystem
// named subsystem. Each update can be skipped with the property
// "subsystem.<subsystem>.<name>.skip".
func UpdateSubsystem(subsystem, name string, update SubsystemUpdate) Rule {
	return func(cfg *resource.Configuration) (*task.Task, error) {
		return NewResourcesTask(cfg, ResourcesConfig{
			Name:         domain.NewTaskName("subsystem."+subsystem+".update", "task", name),
			Kind:         resource.KindSubsystem,
			ResourceName: subsystem,
			Subtask: func(r *resource.Resource) (*task.Task, error) {
				return task.New(task.Config{
					Name: leafName(name, r),
					Skip: task.SkipIfAny(
						task.SkipIfDefaultPropertySet(),
						task.SkipIfPropertySet(subsystemProperty(subsystem, name, "skip")),
					),
					Run: func(ctx context.Context, tc *task.Context) (domain.TaskResult, error) {
						node, err := r.ReadConfiguration(ctx)
						if err != nil {
							return domain.TaskResult{}, err
						}
						env := func(key string) string {
							return tc.Environment().GetString(subsystemProperty(subsystem, name, key))
						}
						return update(ctx, tc, r, node, env)
					},
				})
			},
		})
	}
}

func subsystemProperty(subsystem, taskName, key string) string {
	return "subsystem." + subsystem + "." + taskName + "." + key
}

// DefinePassivationDisabledCache sets the ejb3 passivation-disabled cache to
// the default stateful session bean cache when only the latter is defined.
func DefinePassivationDisabledCache() Rule {
	const (
		sfsbCache                = "default-sfsb-cache"
		passivationDisabledCache = "default-sfsb-passivation-disabled-cache"
	)
	return UpdateSubsystem("ejb3", "setup-default-sfsb-passivation-disabled-cache",
		func(ctx context.Context, tc *task.Context, r *resource.Resource, node *management.Node, _ func(string) string) (domain.TaskResult, error) {
			if !defined(node, sfsbCache) || defined(node, passivationDisabledCache) {
				return domain.Skipped(), nil
			}
			value, _ := node.StringAttribute(sfsbCache)
			if err := r.WriteAttribute(ctx, passivationDisabledCache, value); err != nil {
				return domain.TaskResult{}, err
			}
			logger := tc.Logger()
			logger.Info().Str("attribute", passivationDisabledCache).Str("value", value).Msg("ejb3 attribute set")
			return domain.Success(), nil
		})
}

// FixHibernateCacheModuleName rewrites legacy hibernate module names of
// infinispan cache containers. The environment properties
// "subsystem.infinispan.fix-hibernate-cache-module-name.moduleName" and
// ".deprecatedModuleNames" (comma separated) override the defaults.
func FixHibernateCacheModuleName() Rule {
	const (
		cacheContainer    = "cache-container"
		defaultModuleName = "org.hibernate.infinispan"
	)
	defaultLegacy := []string{"org.jboss.as.jpa.hibernate:4", "org.hibernate"}

	return UpdateSubsystem("infinispan", "fix-hibernate-cache-module-name",
		func(ctx context.Context, tc *task.Context, r *resource.Resource, node *management.Node, env func(string) string) (domain.TaskResult, error) {
			moduleName := env("moduleName")
			if moduleName == "" {
				moduleName = defaultModuleName
			}
			legacy := defaultLegacy
			if raw := env("deprecatedModuleNames"); raw != "" {
				legacy = splitList(raw)
			}

			logger := tc.Logger()
			updated := false
			for _, name := range node.ChildNames(cacheContainer) {
				module, ok := node.Child(cacheContainer, name).StringAttribute(attrModule)
				if !ok || !slices.Contains(legacy, module) {
					continue
				}
				address := r.Address().Append(cacheContainer, name)
				if _, err := r.Configuration().Client().Execute(ctx,
					management.WriteAttribute(address, attrModule, moduleName)); err != nil {
					return domain.TaskResult{}, err
				}
				logger.Info().Str("cache_container", name).Str("module", moduleName).Msg("cache module name updated")
				updated = true
			}
			if !updated {
				return domain.Skipped(), nil
			}
			return domain.Success(), nil
		})
}

// SetSubsystemAttributes returns a rule writing attrs on every subsystem
// named subsystem. Attributes already holding the value are left alone and
// a subsystem needing no change is skipped. Values are logged redacted when
// they look sensitive.
func SetSubsystemAttributes(subsystem string, attrs map[string]any) Rule {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	return UpdateSubsystem(subsystem, "update-attributes",
		func(ctx context.Context, tc *task.Context, r *resource.Resource, node *management.Node, _ func(string) string) (domain.TaskResult, error) {
			logger := tc.Logger()
			updated := false
			for _, name := range names {
				want := attrs[name]
				if current, ok := node.Attribute(name); ok && reflect.DeepEqual(current, want) {
					continue
				}
				if err := r.WriteAttribute(ctx, name, want); err != nil {
					return domain.TaskResult{}, err
				}
				logger.Info().
					Str("resource", r.AbsoluteName()).
					Str("attribute", name).
					Str("value", logging.SafeValue(name, want)).
					Msg("subsystem attribute set")
				updated = true
			}
			if !updated {
				return domain.Skipped(), nil
			}
			return domain.Success(), nil
		})
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func logHook(msg string) task.Hook {
	return func(_ context.Context, tc *task.Context) error {
		logger := tc.Logger()
		logger.Info().Msg(msg)
		return nil
	}
}
