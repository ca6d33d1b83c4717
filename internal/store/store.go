// Package store provides a file-backed configuration store implementing
// management.Client. A server configuration file is loaded into an in-memory
// resource tree, operations are applied to the tree, and Save writes it back
// atomically.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/transit/internal/management"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// Store is an in-memory configuration tree. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	root   *management.Node
	path   string
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for operation tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store over root. A nil root starts an empty configuration.
func New(root *management.Node, opts ...Option) *Store {
	if root == nil {
		root = management.NewNode(nil)
	}
	s := &Store{root: root, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads a YAML configuration file into a new store bound to path.
func Load(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //#nosec G304 -- path is a configuration file chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration '%s': %w", path, err)
	}

	root := management.NewNode(nil)
	if err := yaml.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("failed to parse configuration '%s': %w", path, err)
	}
	if root.Attributes == nil {
		root.Attributes = map[string]any{}
	}

	s := New(root, opts...)
	s.path = path
	s.logger.Debug().
		Str("path", path).
		Int("kinds", len(root.Children)).
		Msg("configuration loaded")
	return s, nil
}

// Path returns the file the store was loaded from, if any.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a deep copy of the current tree.
func (s *Store) Snapshot() *management.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root.Clone()
}

// Save writes the tree back to the file it was loaded from.
func (s *Store) Save(ctx context.Context) error {
	if s.path == "" {
		return fmt.Errorf("failed to save configuration: %w", os.ErrInvalid)
	}
	return s.SaveTo(ctx, s.path)
}

// SaveTo writes the tree to path atomically.
func (s *Store) SaveTo(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	data, err := yaml.Marshal(s.root)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode configuration '%s': %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	if err := atomicWrite(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to save configuration '%s': %w", path, err)
	}

	s.logger.Debug().Str("path", path).Msg("configuration saved")
	return nil
}

// atomicWrite writes data to a file atomically using write-then-rename.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
