package resource

import (
	"sort"

	"github.com/mrz1836/transit/internal/domain"
)

// ChildSpec declares that a parent kind contains children of Kind, reached
// through the optional intermediate Via address (e.g. core-service=management).
type ChildSpec struct {
	Kind Kind
	Via  domain.Address
}

// Schema is the registry of parent to child kind relations. The transitive
// descendant closure of every kind is recomputed on each registration.
type Schema struct {
	children    map[Kind][]ChildSpec
	descendants map[Kind]map[Kind]struct{}
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{
		children:    map[Kind][]ChildSpec{},
		descendants: map[Kind]map[Kind]struct{}{},
	}
}

// Register declares child kinds of parent. Registering the same child twice
// replaces the earlier spec.
func (s *Schema) Register(parent Kind, specs ...ChildSpec) *Schema {
	for _, spec := range specs {
		replaced := false
		for i, existing := range s.children[parent] {
			if existing.Kind == spec.Kind {
				s.children[parent][i] = spec
				replaced = true
				break
			}
		}
		if !replaced {
			s.children[parent] = append(s.children[parent], spec)
		}
	}
	s.computeClosure()
	return s
}

// Children returns the declared child specs of kind in registration order.
func (s *Schema) Children(kind Kind) []ChildSpec {
	return append([]ChildSpec(nil), s.children[kind]...)
}

// Descendants returns every kind that can appear anywhere below kind, ordered by kind value.
func (s *Schema) Descendants(kind Kind) []Kind {
	out := make([]Kind, 0, len(s.descendants[kind]))
	for k := range s.descendants[kind] {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CanContain reports whether a resource of kind is, or may have below it, a resource of target.
func (s *Schema) CanContain(kind, target Kind) bool {
	if kind == target {
		return true
	}
	_, ok := s.descendants[kind][target]
	return ok
}

func (s *Schema) computeClosure() {
	s.descendants = make(map[Kind]map[Kind]struct{}, len(s.children))
	for kind := range s.children {
		seen := map[Kind]struct{}{}
		s.collect(kind, seen)
		s.descendants[kind] = seen
	}
}

func (s *Schema) collect(kind Kind, seen map[Kind]struct{}) {
	for _, spec := range s.children[kind] {
		if _, ok := seen[spec.Kind]; ok {
			continue
		}
		seen[spec.Kind] = struct{}{}
		s.collect(spec.Kind, seen)
	}
}

// DefaultSchema returns the schema of standalone, domain and host configurations.
func DefaultSchema() *Schema {
	coreManagement := domain.NewAddress("core-service", "management")
	child := func(k Kind) ChildSpec { return ChildSpec{Kind: k} }

	return NewSchema().
		Register(KindStandalone,
			child(KindExtension),
			child(KindSystemProperty),
			child(KindPath),
			child(KindInterface),
			child(KindSocketBindingGroup),
			child(KindSubsystem),
			child(KindDeployment),
			child(KindDeploymentOverlay),
			ChildSpec{Kind: KindSecurityRealm, Via: coreManagement},
			ChildSpec{Kind: KindManagementInterface, Via: coreManagement},
		).
		Register(KindDomain,
			child(KindExtension),
			child(KindSystemProperty),
			child(KindPath),
			child(KindInterface),
			child(KindProfile),
			child(KindSocketBindingGroup),
			child(KindDeployment),
			child(KindDeploymentOverlay),
			child(KindServerGroup),
		).
		Register(KindHost,
			child(KindExtension),
			child(KindSystemProperty),
			child(KindPath),
			child(KindInterface),
			child(KindJVM),
			child(KindServerConfig),
			child(KindSubsystem),
			ChildSpec{Kind: KindSecurityRealm, Via: coreManagement},
			ChildSpec{Kind: KindManagementInterface, Via: coreManagement},
		).
		Register(KindProfile, child(KindSubsystem)).
		Register(KindSocketBindingGroup, child(KindSocketBinding)).
		Register(KindServerGroup, child(KindJVM), child(KindDeployment), child(KindSystemProperty)).
		Register(KindServerConfig, child(KindJVM), child(KindPath), child(KindInterface), child(KindSystemProperty))
}
