// Package domain provides shared value types for the transit migration core.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
package domain

import (
	"maps"
	"sort"
	"strings"
)

// Status is the outcome class of a task execution.
type Status string

// Task status values. StatusFailed only ever appears on execution records:
// a failing task signals failure by returning an error, never by a TaskResult.
const (
	// StatusSuccess indicates the task applied changes.
	StatusSuccess Status = "success"

	// StatusSkipped indicates the task deliberately did nothing.
	StatusSkipped Status = "skipped"

	// StatusFailed indicates the task returned an error.
	StatusFailed Status = "failed"
)

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// TaskResult is the immutable outcome of a successful (non-erroring) task run.
type TaskResult struct {
	status     Status
	attributes map[string]string
}

// NewTaskResult creates a result with the given status and optional attributes.
// The attribute map is copied.
func NewTaskResult(status Status, attributes map[string]string) TaskResult {
	return TaskResult{status: status, attributes: maps.Clone(attributes)}
}

// Success returns a SUCCESS result without attributes.
func Success() TaskResult {
	return TaskResult{status: StatusSuccess}
}

// Skipped returns a SKIPPED result without attributes.
func Skipped() TaskResult {
	return TaskResult{status: StatusSkipped}
}

// Status returns the result status.
func (r TaskResult) Status() Status {
	return r.status
}

// IsSuccess reports whether the result status is SUCCESS.
func (r TaskResult) IsSuccess() bool {
	return r.status == StatusSuccess
}

// IsSkipped reports whether the result status is SKIPPED.
func (r TaskResult) IsSkipped() bool {
	return r.status == StatusSkipped
}

// Attribute returns a named result attribute.
func (r TaskResult) Attribute(key string) (string, bool) {
	v, ok := r.attributes[key]
	return v, ok
}

// Attributes returns a copy of all result attributes.
func (r TaskResult) Attributes() map[string]string {
	return maps.Clone(r.attributes)
}

// WithAttribute returns a copy of the result with an attribute set.
func (r TaskResult) WithAttribute(key, value string) TaskResult {
	attrs := maps.Clone(r.attributes)
	if attrs == nil {
		attrs = make(map[string]string, 1)
	}
	attrs[key] = value
	return TaskResult{status: r.status, attributes: attrs}
}

// TaskAttribute is one key/value pair of a TaskName.
type TaskAttribute struct {
	Key   string
	Value string
}

// TaskName is a structured task identifier: a base name plus an ordered set
// of key/value attributes. TaskName values are immutable; With returns a copy.
//
// Example:
//
//	domain.NewTaskName("subsystem.update", "name", "ejb3").String()
//	// subsystem.update(name=ejb3)
type TaskName struct {
	base       string
	attributes []TaskAttribute
}

// NewTaskName creates a task name from a base and alternating key/value pairs.
// A trailing key without a value is ignored.
func NewTaskName(base string, keyValues ...string) TaskName {
	n := TaskName{base: base}
	for i := 0; i+1 < len(keyValues); i += 2 {
		n = n.With(keyValues[i], keyValues[i+1])
	}
	return n
}

// With returns a copy of the name with the attribute set. An existing key keeps
// its position; a new key is appended.
func (n TaskName) With(key, value string) TaskName {
	attrs := make([]TaskAttribute, 0, len(n.attributes)+1)
	replaced := false
	for _, a := range n.attributes {
		if a.Key == key {
			attrs = append(attrs, TaskAttribute{Key: key, Value: value})
			replaced = true
			continue
		}
		attrs = append(attrs, a)
	}
	if !replaced {
		attrs = append(attrs, TaskAttribute{Key: key, Value: value})
	}
	return TaskName{base: n.base, attributes: attrs}
}

// Base returns the base name, used for environment property lookup.
func (n TaskName) Base() string {
	return n.base
}

// Attribute returns the value of a name attribute.
func (n TaskName) Attribute(key string) (string, bool) {
	for _, a := range n.attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Attributes returns a copy of the ordered attributes.
func (n TaskName) Attributes() []TaskAttribute {
	return append([]TaskAttribute(nil), n.attributes...)
}

// IsZero reports whether the name has no base.
func (n TaskName) IsZero() bool {
	return n.base == ""
}

// Equal reports whether two names have the same base and attribute map.
// Attribute order does not matter.
func (n TaskName) Equal(other TaskName) bool {
	if n.base != other.base || len(n.attributes) != len(other.attributes) {
		return false
	}
	for _, a := range n.attributes {
		v, ok := other.Attribute(a.Key)
		if !ok || v != a.Value {
			return false
		}
	}
	return true
}

// String renders the name as base(k1=v1, k2=v2).
func (n TaskName) String() string {
	if len(n.attributes) == 0 {
		return n.base
	}
	parts := make([]string, len(n.attributes))
	for i, a := range n.attributes {
		parts[i] = a.Key + "=" + a.Value
	}
	return n.base + "(" + strings.Join(parts, ", ") + ")"
}

// SortedAttributeKeys returns attribute keys in lexical order.
func (n TaskName) SortedAttributeKeys() []string {
	keys := make([]string, len(n.attributes))
	for i, a := range n.attributes {
		keys[i] = a.Key
	}
	sort.Strings(keys)
	return keys
}
