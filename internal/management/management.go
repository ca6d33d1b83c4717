// Package management defines the contract between the migration core and the
// configuration store it migrates: address-oriented operations, the node model
// returned by reads, and the failure type every store must report.
//
// Import rules:
//   - CAN import: internal/domain, internal/errors, std lib
//   - MUST NOT import: internal/store, internal/resource, internal/task
package management

import (
	"context"
	"fmt"

	"github.com/mrz1836/transit/internal/domain"
	transiterrors "github.com/mrz1836/transit/internal/errors"
)

// Operation names understood by configuration stores.
const (
	OpReadResource      = "read-resource"
	OpReadChildrenNames = "read-children-names"
	OpReadChildrenTypes = "read-children-types"
	OpAdd               = "add"
	OpRemove            = "remove"
	OpWriteAttribute    = "write-attribute"
	OpUndefineAttribute = "undefine-attribute"
	OpComposite         = "composite"
)

// Operation parameter names.
const (
	ParamChildType = "child-type"
	ParamName      = "name"
	ParamValue     = "value"
	ParamRecursive = "recursive"
)

// Client is the configuration-store collaborator. Implementations apply one
// atomic operation per Execute call; a composite operation is applied all-or-nothing.
type Client interface {
	// Execute applies op at op.Address. Failures are reported as *OperationError.
	Execute(ctx context.Context, op Operation) (Result, error)

	// ListChildNames lists child names of the given kind under address.
	// It fails when the kind cannot be listed there, which some stores also
	// report when the kind is not defined at all for that resource.
	ListChildNames(ctx context.Context, address domain.Address, kind string) ([]string, error)

	// ListChildKinds lists the child kinds defined for the resource at address.
	ListChildKinds(ctx context.Context, address domain.Address) ([]string, error)
}

// Operation is one management request against an address.
type Operation struct {
	Name    string         `yaml:"operation"`
	Address domain.Address `yaml:"address,omitempty"`
	Params  map[string]any `yaml:"params,omitempty"`
	Steps   []Operation    `yaml:"steps,omitempty"`
}

// Result carries the payload of a successful operation. Only the field matching
// the operation is populated.
type Result struct {
	// Node is set by read-resource.
	Node *Node
	// Names is set by read-children-names and read-children-types.
	Names []string
	// Steps holds per-step results of a composite operation.
	Steps []Result
}

// ReadResource builds a recursive read of the resource at address.
func ReadResource(address domain.Address) Operation {
	return Operation{Name: OpReadResource, Address: address, Params: map[string]any{ParamRecursive: true}}
}

// ReadChildrenNames builds a child name listing for kind under address.
func ReadChildrenNames(address domain.Address, kind string) Operation {
	return Operation{Name: OpReadChildrenNames, Address: address, Params: map[string]any{ParamChildType: kind}}
}

// ReadChildrenTypes builds a child kind listing under address.
func ReadChildrenTypes(address domain.Address) Operation {
	return Operation{Name: OpReadChildrenTypes, Address: address}
}

// Add builds an operation adding a resource with the given attributes.
func Add(address domain.Address, attributes map[string]any) Operation {
	return Operation{Name: OpAdd, Address: address, Params: attributes}
}

// Remove builds an operation removing the resource at address and its subtree.
func Remove(address domain.Address) Operation {
	return Operation{Name: OpRemove, Address: address}
}

// WriteAttribute builds an operation setting one attribute.
func WriteAttribute(address domain.Address, name string, value any) Operation {
	return Operation{Name: OpWriteAttribute, Address: address, Params: map[string]any{ParamName: name, ParamValue: value}}
}

// UndefineAttribute builds an operation clearing one attribute.
func UndefineAttribute(address domain.Address, name string) Operation {
	return Operation{Name: OpUndefineAttribute, Address: address, Params: map[string]any{ParamName: name}}
}

// Composite batches steps into a single atomic operation.
func Composite(steps ...Operation) Operation {
	return Operation{Name: OpComposite, Steps: steps}
}

// StringParam returns a string parameter, or "" when absent or not a string.
func (op Operation) StringParam(name string) string {
	s, _ := op.Params[name].(string)
	return s
}

// OperationError reports a failed management operation together with the
// store's failure description. It matches errors.ErrManagementOperation and
// unwraps to a more specific cause when the store supplies one.
type OperationError struct {
	Operation   string
	Address     domain.Address
	Description string
	Err         error
}

// NewOperationError creates an OperationError for op.
func NewOperationError(op Operation, cause error, format string, args ...any) *OperationError {
	return &OperationError{
		Operation:   op.Name,
		Address:     op.Address,
		Description: fmt.Sprintf(format, args...),
		Err:         cause,
	}
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %s at %s failed: %s", e.Operation, e.Address, e.Description)
}

// Unwrap returns the specific cause, if any.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is makes every OperationError match ErrManagementOperation.
func (e *OperationError) Is(target error) bool {
	return target == transiterrors.ErrManagementOperation
}
