package domain

import (
	"fmt"
	"strings"

	transiterrors "github.com/mrz1836/transit/internal/errors"
)

// PathElement is one (key, value) segment of an Address.
type PathElement struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// String renders the element as key=value.
func (e PathElement) String() string {
	return e.Key + "=" + e.Value
}

// Address locates a resource in the configuration tree. A child's address is
// its parent's address with one element appended; the root has the empty address.
// Address values are treated as immutable: Append always copies.
type Address []PathElement

// NewAddress builds an address from alternating key/value pairs.
// A trailing key without a value is ignored.
func NewAddress(keyValues ...string) Address {
	a := make(Address, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		a = append(a, PathElement{Key: keyValues[i], Value: keyValues[i+1]})
	}
	return a
}

// ParseAddress parses the CLI form produced by String, e.g. /profile=full/subsystem=ejb3.
// "/" and "" both parse to the root address.
func ParseAddress(s string) (Address, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return Address{}, nil
	}
	segments := strings.Split(s, "/")
	a := make(Address, 0, len(segments))
	for _, seg := range segments {
		key, value, ok := strings.Cut(seg, "=")
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("%w: malformed address segment %q", transiterrors.ErrInvalidArgument, seg)
		}
		a = append(a, PathElement{Key: key, Value: value})
	}
	return a, nil
}

// Append returns a new address with one element appended.
func (a Address) Append(key, value string) Address {
	out := make(Address, len(a), len(a)+1)
	copy(out, a)
	return append(out, PathElement{Key: key, Value: value})
}

// Concat returns a new address with all elements of other appended.
func (a Address) Concat(other Address) Address {
	out := make(Address, 0, len(a)+len(other))
	out = append(out, a...)
	return append(out, other...)
}

// Parent returns the address without its last element. The root's parent is the root.
func (a Address) Parent() Address {
	if len(a) == 0 {
		return Address{}
	}
	out := make(Address, len(a)-1)
	copy(out, a[:len(a)-1])
	return out
}

// Last returns the final element, if any.
func (a Address) Last() (PathElement, bool) {
	if len(a) == 0 {
		return PathElement{}, false
	}
	return a[len(a)-1], true
}

// IsRoot reports whether the address is empty.
func (a Address) IsRoot() bool {
	return len(a) == 0
}

// Equal reports element-wise equality.
func (a Address) Equal(other Address) bool {
	if len(a) != len(other) {
		return false
	}
	for i := range a {
		if a[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the CLI form /k1=v1/k2=v2. The root renders as "/".
func (a Address) String() string {
	if len(a) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, e := range a {
		b.WriteByte('/')
		b.WriteString(e.String())
	}
	return b.String()
}
