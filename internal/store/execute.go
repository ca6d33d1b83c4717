package store

import (
	"context"

	"github.com/mrz1836/transit/internal/domain"
	transiterrors "github.com/mrz1836/transit/internal/errors"
	"github.com/mrz1836/transit/internal/management"
)

// Compile-time check that Store implements management.Client.
var _ management.Client = (*Store)(nil)

// Execute applies op to the tree. Composite operations are applied to a copy
// which replaces the tree only when every step succeeds.
func (s *Store) Execute(ctx context.Context, op management.Operation) (management.Result, error) {
	if err := ctx.Err(); err != nil {
		return management.Result{}, err
	}

	if isRead(op.Name) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return apply(s.root, op)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if op.Name == management.OpComposite {
		work := s.root.Clone()
		result, err := apply(work, op)
		if err != nil {
			s.logger.Debug().Err(err).Int("steps", len(op.Steps)).Msg("composite operation rolled back")
			return management.Result{}, err
		}
		s.root = work
		s.logger.Debug().Int("steps", len(op.Steps)).Msg("composite operation applied")
		return result, nil
	}

	result, err := apply(s.root, op)
	if err != nil {
		return management.Result{}, err
	}
	s.logger.Debug().
		Str("operation", op.Name).
		Str("address", op.Address.String()).
		Msg("operation applied")
	return result, nil
}

// ListChildNames lists children of kind under address.
func (s *Store) ListChildNames(ctx context.Context, address domain.Address, kind string) ([]string, error) {
	res, err := s.Execute(ctx, management.ReadChildrenNames(address, kind))
	if err != nil {
		return nil, err
	}
	return res.Names, nil
}

// ListChildKinds lists the kinds defined under address.
func (s *Store) ListChildKinds(ctx context.Context, address domain.Address) ([]string, error) {
	res, err := s.Execute(ctx, management.ReadChildrenTypes(address))
	if err != nil {
		return nil, err
	}
	return res.Names, nil
}

func isRead(name string) bool {
	switch name {
	case management.OpReadResource, management.OpReadChildrenNames, management.OpReadChildrenTypes:
		return true
	default:
		return false
	}
}

// apply executes op against root in place. Callers hold the store lock.
func apply(root *management.Node, op management.Operation) (management.Result, error) {
	switch op.Name {
	case management.OpReadResource:
		node, err := resolve(root, op)
		if err != nil {
			return management.Result{}, err
		}
		return management.Result{Node: node.Clone()}, nil

	case management.OpReadChildrenNames:
		node, err := resolve(root, op)
		if err != nil {
			return management.Result{}, err
		}
		kind := op.StringParam(management.ParamChildType)
		if !node.HasChildKind(kind) {
			return management.Result{}, management.NewOperationError(op, transiterrors.ErrKindNotListable,
				"child type %q is not listable", kind)
		}
		return management.Result{Names: node.ChildNames(kind)}, nil

	case management.OpReadChildrenTypes:
		node, err := resolve(root, op)
		if err != nil {
			return management.Result{}, err
		}
		return management.Result{Names: node.ChildKinds()}, nil

	case management.OpAdd:
		return management.Result{}, add(root, op)

	case management.OpRemove:
		return management.Result{}, remove(root, op)

	case management.OpWriteAttribute:
		node, err := resolve(root, op)
		if err != nil {
			return management.Result{}, err
		}
		name := op.StringParam(management.ParamName)
		if name == "" {
			return management.Result{}, management.NewOperationError(op, transiterrors.ErrInvalidArgument, "attribute name is required")
		}
		if node.Attributes == nil {
			node.Attributes = map[string]any{}
		}
		node.Attributes[name] = op.Params[management.ParamValue]
		return management.Result{}, nil

	case management.OpUndefineAttribute:
		node, err := resolve(root, op)
		if err != nil {
			return management.Result{}, err
		}
		delete(node.Attributes, op.StringParam(management.ParamName))
		return management.Result{}, nil

	case management.OpComposite:
		results := make([]management.Result, 0, len(op.Steps))
		for _, step := range op.Steps {
			r, err := apply(root, step)
			if err != nil {
				return management.Result{}, err
			}
			results = append(results, r)
		}
		return management.Result{Steps: results}, nil

	default:
		return management.Result{}, management.NewOperationError(op, transiterrors.ErrUnknownOperation,
			"operation %q is not supported", op.Name)
	}
}

func resolve(root *management.Node, op management.Operation) (*management.Node, error) {
	node := root.Lookup(op.Address)
	if node == nil {
		return nil, management.NewOperationError(op, transiterrors.ErrResourceNotFound,
			"resource %s not found", op.Address)
	}
	return node, nil
}

func add(root *management.Node, op management.Operation) error {
	last, ok := op.Address.Last()
	if !ok {
		return management.NewOperationError(op, transiterrors.ErrInvalidArgument, "cannot add the root resource")
	}
	parent := root.Lookup(op.Address.Parent())
	if parent == nil {
		return management.NewOperationError(op, transiterrors.ErrResourceNotFound,
			"parent %s not found", op.Address.Parent())
	}
	if parent.Child(last.Key, last.Value) != nil {
		return management.NewOperationError(op, transiterrors.ErrResourceExists,
			"resource %s already exists", op.Address)
	}
	parent.SetChild(last.Key, last.Value, management.NewNode(op.Params))
	return nil
}

func remove(root *management.Node, op management.Operation) error {
	last, ok := op.Address.Last()
	if !ok {
		return management.NewOperationError(op, transiterrors.ErrInvalidArgument, "cannot remove the root resource")
	}
	parent := root.Lookup(op.Address.Parent())
	if parent.Child(last.Key, last.Value) == nil {
		return management.NewOperationError(op, transiterrors.ErrResourceNotFound,
			"resource %s not found", op.Address)
	}
	delete(parent.Children[last.Key], last.Value)
	return nil
}
