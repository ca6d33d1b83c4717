package resource

import (
	"context"
	"fmt"
	"sort"

	"github.com/mrz1836/transit/internal/domain"
	transiterrors "github.com/mrz1836/transit/internal/errors"
	"github.com/mrz1836/transit/internal/management"
)

// Resource is a view of one node in the configuration tree. It holds no
// configuration state of its own.
type Resource struct {
	name      string
	kind      Kind
	address   domain.Address
	parent    *Resource
	config    *Configuration
	factories map[Kind]*Factory
	order     []Kind
}

func newResource(config *Configuration, parent *Resource, kind Kind, name string, address domain.Address) *Resource {
	r := &Resource{
		name:      name,
		kind:      kind,
		address:   address,
		parent:    parent,
		config:    config,
		factories: map[Kind]*Factory{},
	}
	for _, spec := range config.schema.Children(kind) {
		r.factories[spec.Kind] = &Factory{kind: spec.Kind, parent: r, via: spec.Via}
		r.order = append(r.order, spec.Kind)
	}
	return r
}

// Name returns the resource name. The root carries the configuration name.
func (r *Resource) Name() string { return r.name }

// Kind returns the resource kind.
func (r *Resource) Kind() Kind { return r.kind }

// Address returns a copy of the resource address.
func (r *Resource) Address() domain.Address {
	return append(domain.Address(nil), r.address...)
}

// Parent returns the parent resource, or nil for the root.
func (r *Resource) Parent() *Resource { return r.parent }

// Configuration returns the owning configuration.
func (r *Resource) Configuration() *Configuration { return r.config }

// AbsoluteName renders the address in CLI form, e.g. /profile=full/subsystem=ejb3.
func (r *Resource) AbsoluteName() string {
	return r.address.String()
}

// String implements fmt.Stringer.
func (r *Resource) String() string {
	return fmt.Sprintf("%s %s", r.kind, r.address)
}

// Equal reports whether both views denote the same node of the same configuration.
func (r *Resource) Equal(other *Resource) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.config == other.config && r.address.Equal(other.address)
}

// Factory returns the child factory for kind, or nil when kind is not a child of this resource.
func (r *Resource) Factory(kind Kind) *Factory {
	return r.factories[kind]
}

// Factories returns the registered child factories in schema order.
func (r *Resource) Factories() []*Factory {
	out := make([]*Factory, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.factories[k])
	}
	return out
}

// ChildAddress returns the address a child of kind named name would have,
// or nil when kind is not registered here.
func (r *Resource) ChildAddress(kind Kind, name string) domain.Address {
	f := r.factories[kind]
	if f == nil {
		return nil
	}
	return f.ResourceAddress(name)
}

// ChildResourceNames lists the names of children of kind, sorted.
// An unregistered kind yields no names.
func (r *Resource) ChildResourceNames(ctx context.Context, kind Kind) ([]string, error) {
	f := r.factories[kind]
	if f == nil {
		return []string{}, nil
	}
	return f.Names(ctx)
}

// ChildResource returns the named child of kind, or nil when the kind is not
// registered here or no such child exists.
func (r *Resource) ChildResource(ctx context.Context, kind Kind, name string) (*Resource, error) {
	f := r.factories[kind]
	if f == nil {
		return nil, nil
	}
	return f.Resource(ctx, name)
}

// ChildResources returns every child of kind, ordered by name.
func (r *Resource) ChildResources(ctx context.Context, kind Kind) ([]*Resource, error) {
	f := r.factories[kind]
	if f == nil {
		return []*Resource{}, nil
	}
	return f.Resources(ctx)
}

// HasChild reports whether a child of kind named name exists.
func (r *Resource) HasChild(ctx context.Context, kind Kind, name string) (bool, error) {
	child, err := r.ChildResource(ctx, kind, name)
	if err != nil {
		return false, err
	}
	return child != nil, nil
}

// ChildConfiguration reads the configuration of a child without wrapping it.
func (r *Resource) ChildConfiguration(ctx context.Context, kind Kind, name string) (*management.Node, error) {
	f := r.factories[kind]
	if f == nil {
		return nil, fmt.Errorf("%s has no %s children: %w", r.address, kind, transiterrors.ErrKindNotRegistered)
	}
	return f.ResourceConfiguration(ctx, name)
}

// AddChild creates a child of kind in the store and returns its view.
func (r *Resource) AddChild(ctx context.Context, kind Kind, name string, attributes map[string]any) (*Resource, error) {
	f := r.factories[kind]
	if f == nil {
		return nil, fmt.Errorf("%s has no %s children: %w", r.address, kind, transiterrors.ErrKindNotRegistered)
	}
	return f.Add(ctx, name, attributes)
}

// RemoveChild removes the named child of kind from the store.
func (r *Resource) RemoveChild(ctx context.Context, kind Kind, name string) error {
	f := r.factories[kind]
	if f == nil {
		return fmt.Errorf("%s has no %s children: %w", r.address, kind, transiterrors.ErrKindNotRegistered)
	}
	return f.Remove(ctx, name)
}

// Remove removes this resource from the store.
func (r *Resource) Remove(ctx context.Context) error {
	if r.address.IsRoot() {
		return fmt.Errorf("cannot remove configuration root: %w", transiterrors.ErrInvalidArgument)
	}
	_, err := r.config.client.Execute(ctx, management.Remove(r.address))
	return err
}

// ReadConfiguration reads this resource's current configuration from the store.
func (r *Resource) ReadConfiguration(ctx context.Context) (*management.Node, error) {
	res, err := r.config.client.Execute(ctx, management.ReadResource(r.address))
	if err != nil {
		return nil, err
	}
	return res.Node, nil
}

// WriteAttribute sets one attribute of this resource.
func (r *Resource) WriteAttribute(ctx context.Context, name string, value any) error {
	_, err := r.config.client.Execute(ctx, management.WriteAttribute(r.address, name, value))
	return err
}

// UndefineAttribute clears one attribute of this resource.
func (r *Resource) UndefineAttribute(ctx context.Context, name string) error {
	_, err := r.config.client.Execute(ctx, management.UndefineAttribute(r.address, name))
	return err
}

// ChildKinds lists the child kinds the store reports at this address.
func (r *Resource) ChildKinds(ctx context.Context) ([]string, error) {
	return r.config.client.ListChildKinds(ctx, r.address)
}

// FindResources returns every resource of kind at or below r, optionally
// restricted to name ("" matches any). Only factories whose kind can contain
// kind are traversed. Results are distinct and ordered by address.
func (r *Resource) FindResources(ctx context.Context, kind Kind, name string) ([]*Resource, error) {
	found := map[string]*Resource{}
	if err := r.find(ctx, kind, name, found); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(found))
	for k := range found {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*Resource, 0, len(keys))
	for _, k := range keys {
		out = append(out, found[k])
	}
	return out, nil
}

func (r *Resource) find(ctx context.Context, kind Kind, name string, found map[string]*Resource) error {
	if r.kind == kind && (name == "" || name == r.name) {
		found[r.address.String()] = r
	}

	schema := r.config.schema
	for _, f := range r.Factories() {
		if !schema.CanContain(f.kind, kind) {
			continue
		}
		r.config.logger.Debug().
			Str("address", r.address.String()).
			Str("kind", f.kind.String()).
			Str("target_kind", kind.String()).
			Msg("searching factory")

		children, err := f.Resources(ctx)
		if f.Undefined(err) {
			r.config.logger.Debug().
				Str("address", f.Address().String()).
				Str("kind", f.kind.String()).
				Msg("skipping undefined address")
			continue
		}
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := child.find(ctx, kind, name, found); err != nil {
				return err
			}
		}
	}
	return nil
}
