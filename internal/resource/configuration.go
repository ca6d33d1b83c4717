// Package resource implements the addressable resource tree: a lazily
// discovered, typed view over a configuration store. Nothing is cached;
// every read goes back to the store.
//
// Import rules:
//   - CAN import: internal/domain, internal/errors, internal/management
//   - MUST NOT import: internal/store, internal/task, internal/migration
package resource

import (
	"github.com/rs/zerolog"

	"github.com/mrz1836/transit/internal/domain"
	"github.com/mrz1836/transit/internal/management"
)

// Configuration is the root of one configuration tree and the sole owner of
// the store client. Resources compare equal only within the same Configuration.
type Configuration struct {
	name   string
	client management.Client
	schema *Schema
	logger zerolog.Logger
	root   *Resource
}

// ConfigurationOption configures a Configuration.
type ConfigurationOption func(*Configuration)

// WithSchema overrides the default schema.
func WithSchema(schema *Schema) ConfigurationOption {
	return func(c *Configuration) {
		c.schema = schema
	}
}

// WithLogger sets the logger used for probe and lookup tracing.
func WithLogger(logger zerolog.Logger) ConfigurationOption {
	return func(c *Configuration) {
		c.logger = logger
	}
}

// NewConfiguration creates a configuration tree of the given root kind over client.
// name identifies the configuration in logs, typically its file name.
func NewConfiguration(name string, kind Kind, client management.Client, opts ...ConfigurationOption) *Configuration {
	c := &Configuration{
		name:   name,
		client: client,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.schema == nil {
		c.schema = DefaultSchema()
	}
	c.root = newResource(c, nil, kind, name, domain.Address{})
	return c
}

// Name returns the configuration name.
func (c *Configuration) Name() string {
	return c.name
}

// Client returns the store client.
func (c *Configuration) Client() management.Client {
	return c.client
}

// Schema returns the kind schema.
func (c *Configuration) Schema() *Schema {
	return c.schema
}

// Root returns the root resource.
func (c *Configuration) Root() *Resource {
	return c.root
}
