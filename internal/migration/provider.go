package migration

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	transiterrors "github.com/mrz1836/transit/internal/errors"
	"github.com/mrz1836/transit/internal/resource"
	"github.com/mrz1836/transit/internal/task"
)

// Rule builds the task that applies one migration rule to a configuration.
type Rule func(cfg *resource.Configuration) (*task.Task, error)

// Provider migrates configurations of one source product version range.
type Provider struct {
	// Name identifies the provider in logs and reports.
	Name string

	// Product is the source product name, matched case-insensitively.
	Product string

	// Versions is a semver constraint over the source product version, e.g. "~8".
	Versions string

	// Rules are applied in order to each configuration of a type.
	Rules map[ConfigType][]Rule

	constraint *semver.Constraints
}

// RulesFor returns the rules applied to configurations of type t.
func (p *Provider) RulesFor(t ConfigType) []Rule {
	return p.Rules[t]
}

// Matches reports whether the provider handles product.
func (p *Provider) Matches(product Product, version *semver.Version) bool {
	return strings.EqualFold(p.Product, product.Name) && p.constraint.Check(version)
}

// Registry is an ordered table of providers. The first matching provider wins.
type Registry struct {
	providers []*Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a provider. Names must be unique and Versions must parse.
func (r *Registry) Register(p Provider) error {
	for _, existing := range r.providers {
		if existing.Name == p.Name {
			return fmt.Errorf("%w: %s", transiterrors.ErrProviderDuplicate, p.Name)
		}
	}
	constraint, err := semver.NewConstraint(p.Versions)
	if err != nil {
		return fmt.Errorf("%w: provider %s constraint %q: %w", transiterrors.ErrInvalidVersion, p.Name, p.Versions, err)
	}
	p.constraint = constraint
	r.providers = append(r.providers, &p)
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// statically defined provider tables.
func (r *Registry) MustRegister(providers ...Provider) *Registry {
	for _, p := range providers {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// Providers returns the registered providers in registration order.
func (r *Registry) Providers() []*Provider {
	return append([]*Provider(nil), r.providers...)
}

// Resolve returns the provider for the source product.
func (r *Registry) Resolve(product Product) (*Provider, error) {
	version, err := ParseProductVersion(product.Version)
	if err != nil {
		return nil, err
	}
	for _, p := range r.providers {
		if p.Matches(product, version) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", transiterrors.ErrUnknownProvider, product)
}

var productVersionPattern = regexp.MustCompile(`^v?(\d+(?:\.\d+){0,2})(?:[.\-](.+))?$`) //nolint:gochecknoglobals // compiled once

var invalidMetadata = regexp.MustCompile(`[^0-9A-Za-z.\-]`) //nolint:gochecknoglobals // compiled once

// ParseProductVersion parses product versions such as "8.2.1.Final" or
// "6.4.0.GA". A qualifier after the numeric part becomes build metadata, so
// it never affects constraint matching.
func ParseProductVersion(s string) (*semver.Version, error) {
	m := productVersionPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil, fmt.Errorf("%w: %q", transiterrors.ErrInvalidVersion, s)
	}
	v := m[1]
	if m[2] != "" {
		v += "+" + invalidMetadata.ReplaceAllString(m[2], "-")
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", transiterrors.ErrInvalidVersion, s, err)
	}
	return version, nil
}
