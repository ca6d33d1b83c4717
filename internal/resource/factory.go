package resource

import (
	"context"
	"errors"
	"slices"
	"sort"

	"github.com/mrz1836/transit/internal/domain"
	transiterrors "github.com/mrz1836/transit/internal/errors"
	"github.com/mrz1836/transit/internal/management"
)

// Factory is the lazy accessor for one child kind under one parent resource.
type Factory struct {
	kind   Kind
	parent *Resource
	via    domain.Address
}

// Kind returns the child kind served by the factory.
func (f *Factory) Kind() Kind { return f.kind }

// Parent returns the owning resource.
func (f *Factory) Parent() *Resource { return f.parent }

// Address returns the address under which children are listed.
func (f *Factory) Address() domain.Address {
	return f.parent.address.Concat(f.via)
}

// Undefined reports whether err means the intermediate address the factory
// lists through, such as core-service=management, is absent.
func (f *Factory) Undefined(err error) bool {
	return len(f.via) > 0 && errors.Is(err, transiterrors.ErrResourceNotFound)
}

// ResourceAddress returns the address of the named child.
func (f *Factory) ResourceAddress(name string) domain.Address {
	return f.Address().Append(f.kind.Key(), name)
}

// Names lists the child names, sorted. When the store refuses the listing,
// the child kinds at the same address are probed: if the kind is not defined
// there the result is empty, otherwise the original failure is returned.
func (f *Factory) Names(ctx context.Context) ([]string, error) {
	client := f.parent.config.client
	address := f.Address()
	key := f.kind.Key()

	names, err := client.ListChildNames(ctx, address, key)
	if err == nil {
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		return sorted, nil
	}
	if !errors.Is(err, transiterrors.ErrManagementOperation) {
		return nil, err
	}

	kinds, probeErr := client.ListChildKinds(ctx, address)
	if probeErr != nil {
		f.parent.config.logger.Debug().
			Err(probeErr).
			Str("address", address.String()).
			Str("kind", key).
			Msg("child kind probe failed")
		return nil, err
	}
	if slices.Contains(kinds, key) {
		return nil, err
	}

	f.parent.config.logger.Debug().
		Str("address", address.String()).
		Str("kind", key).
		Msg("child kind not defined, no children")
	return []string{}, nil
}

// Resource returns the view of the named child, or nil when it does not exist.
func (f *Factory) Resource(ctx context.Context, name string) (*Resource, error) {
	names, err := f.Names(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(names, name) {
		return nil, nil
	}
	return f.newChild(name), nil
}

// Resources returns views of every child, ordered by name.
func (f *Factory) Resources(ctx context.Context) ([]*Resource, error) {
	names, err := f.Names(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Resource, 0, len(names))
	for _, name := range names {
		out = append(out, f.newChild(name))
	}
	return out, nil
}

// ResourceConfiguration reads the named child's configuration from the store.
func (f *Factory) ResourceConfiguration(ctx context.Context, name string) (*management.Node, error) {
	res, err := f.parent.config.client.Execute(ctx, management.ReadResource(f.ResourceAddress(name)))
	if err != nil {
		return nil, err
	}
	return res.Node, nil
}

// Add creates the named child with attributes and returns its view.
func (f *Factory) Add(ctx context.Context, name string, attributes map[string]any) (*Resource, error) {
	if _, err := f.parent.config.client.Execute(ctx, management.Add(f.ResourceAddress(name), attributes)); err != nil {
		return nil, err
	}
	return f.newChild(name), nil
}

// Remove removes the named child from the store.
func (f *Factory) Remove(ctx context.Context, name string) error {
	_, err := f.parent.config.client.Execute(ctx, management.Remove(f.ResourceAddress(name)))
	return err
}

func (f *Factory) newChild(name string) *Resource {
	return newResource(f.parent.config, f.parent, f.kind, name, f.ResourceAddress(name))
}
