package management

import (
	"maps"
	"sort"

	"github.com/mrz1836/transit/internal/domain"
)

// Node is the configuration of one resource: its attributes and its children
// grouped by kind. A kind key present with no entries means the kind is
// defined at this resource but currently empty.
type Node struct {
	Attributes map[string]any              `yaml:"attributes,omitempty"`
	Children   map[string]map[string]*Node `yaml:"children,omitempty"`
}

// NewNode creates a node with the given attributes (copied).
func NewNode(attributes map[string]any) *Node {
	n := &Node{Attributes: map[string]any{}}
	for k, v := range attributes {
		n.Attributes[k] = cloneValue(v)
	}
	return n
}

// Attribute returns the named attribute value.
func (n *Node) Attribute(name string) (any, bool) {
	if n == nil {
		return nil, false
	}
	v, ok := n.Attributes[name]
	return v, ok
}

// StringAttribute returns the named attribute when it is a string.
func (n *Node) StringAttribute(name string) (string, bool) {
	v, ok := n.Attribute(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// HasChildKind reports whether kind is defined at this node.
func (n *Node) HasChildKind(kind string) bool {
	if n == nil {
		return false
	}
	_, ok := n.Children[kind]
	return ok
}

// ChildKinds returns the defined child kinds in lexical order.
func (n *Node) ChildKinds() []string {
	if n == nil {
		return nil
	}
	kinds := make([]string, 0, len(n.Children))
	for k := range n.Children {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// ChildNames returns the names of children of kind in lexical order.
func (n *Node) ChildNames(kind string) []string {
	if n == nil {
		return nil
	}
	children := n.Children[kind]
	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Child returns the named child of kind, or nil.
func (n *Node) Child(kind, name string) *Node {
	if n == nil {
		return nil
	}
	return n.Children[kind][name]
}

// Lookup navigates a relative address from n. It returns nil when any segment is missing.
func (n *Node) Lookup(address domain.Address) *Node {
	cur := n
	for _, e := range address {
		cur = cur.Child(e.Key, e.Value)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// DefineChildKind makes kind defined at n, without adding children.
func (n *Node) DefineChildKind(kind string) {
	if n.Children == nil {
		n.Children = map[string]map[string]*Node{}
	}
	if n.Children[kind] == nil {
		n.Children[kind] = map[string]*Node{}
	}
}

// SetChild adds or replaces a child.
func (n *Node) SetChild(kind, name string, child *Node) {
	n.DefineChildKind(kind)
	n.Children[kind][name] = child
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{}
	if n.Attributes != nil {
		out.Attributes = make(map[string]any, len(n.Attributes))
		for k, v := range n.Attributes {
			out.Attributes[k] = cloneValue(v)
		}
	}
	if n.Children != nil {
		out.Children = make(map[string]map[string]*Node, len(n.Children))
		for kind, children := range n.Children {
			cloned := make(map[string]*Node, len(children))
			for name, child := range children {
				cloned[name] = child.Clone()
			}
			out.Children[kind] = cloned
		}
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]string:
		return maps.Clone(t)
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
