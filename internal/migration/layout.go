package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/transit/internal/constants"
	transiterrors "github.com/mrz1836/transit/internal/errors"
	"github.com/mrz1836/transit/internal/resource"
)

// ConfigType classifies a configuration file by the root it describes.
type ConfigType string

// Configuration types, in the order a migration processes them.
const (
	ConfigStandalone ConfigType = "standalone"
	ConfigDomain     ConfigType = "domain"
	ConfigHost       ConfigType = "host"
)

// ConfigTypes lists every configuration type in processing order.
//
//nolint:gochecknoglobals // read-only processing order
var ConfigTypes = []ConfigType{ConfigStandalone, ConfigDomain, ConfigHost}

// Kind returns the resource kind of a configuration root of this type.
func (t ConfigType) Kind() resource.Kind {
	switch t {
	case ConfigStandalone:
		return resource.KindStandalone
	case ConfigDomain:
		return resource.KindDomain
	case ConfigHost:
		return resource.KindHost
	default:
		return resource.KindUnknown
	}
}

// Product identifies the server product and version, read from product.yaml.
type Product struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// String renders "name version".
func (p Product) String() string {
	return strings.TrimSpace(p.Name + " " + p.Version)
}

// ConfigFile is one configuration snapshot of a server.
type ConfigFile struct {
	Type ConfigType
	Name string
	Path string
}

// String renders the file name and type, e.g. "standalone-ha.yaml (standalone)".
func (c ConfigFile) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Type)
}

// Server is a server installation rooted at a base directory.
//
// Layout:
//
//	product.yaml
//	standalone/configuration/*.yaml
//	standalone/data/content/
//	standalone/deployments/
//	domain/configuration/*.yaml      (host*.yaml are host configurations)
type Server struct {
	baseDir string
	product Product
}

// OpenServer reads the server at baseDir. A directory without a readable
// product descriptor is not a server.
func OpenServer(baseDir string) (*Server, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, transiterrors.Wrapf(err, "resolve server directory %s", baseDir)
	}

	path := filepath.Join(abs, constants.ProductFileName)
	data, err := os.ReadFile(path) //#nosec G304 -- path is built from the server directory
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s has no %s", transiterrors.ErrServerNotFound, abs, constants.ProductFileName)
		}
		return nil, transiterrors.Wrapf(err, "read %s", path)
	}

	var product Product
	if err := yaml.Unmarshal(data, &product); err != nil {
		return nil, transiterrors.Wrapf(err, "parse %s", path)
	}
	if strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("%w: %s does not name a product", transiterrors.ErrServerNotFound, path)
	}

	return &Server{baseDir: abs, product: product}, nil
}

// BaseDir returns the absolute base directory.
func (s *Server) BaseDir() string { return s.baseDir }

// Product returns the product descriptor.
func (s *Server) Product() Product { return s.product }

// ConfigurationDir returns the directory holding configuration files of type t.
func (s *Server) ConfigurationDir(t ConfigType) string {
	mode := string(ConfigStandalone)
	if t != ConfigStandalone {
		mode = string(ConfigDomain)
	}
	return filepath.Join(s.baseDir, mode, "configuration")
}

// ContentDir returns the managed deployment content directory.
func (s *Server) ContentDir() string {
	return filepath.Join(s.baseDir, string(ConfigStandalone), "data", "content")
}

// DeploymentsDir returns the scanned deployments directory.
func (s *Server) DeploymentsDir() string {
	return filepath.Join(s.baseDir, string(ConfigStandalone), "deployments")
}

// ConfigurationFiles lists the configuration files of type t sorted by name.
// A missing configuration directory yields no files.
func (s *Server) ConfigurationFiles(t ConfigType) ([]ConfigFile, error) {
	dir := s.ConfigurationDir(t)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, transiterrors.Wrapf(err, "list %s", dir)
	}

	var files []ConfigFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != constants.ConfigurationFileExt {
			continue
		}
		if classify(t, name) != t {
			continue
		}
		files = append(files, ConfigFile{Type: t, Name: name, Path: filepath.Join(dir, name)})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// classify returns the type of a file found in the configuration directory of t.
func classify(t ConfigType, name string) ConfigType {
	if t == ConfigStandalone {
		return ConfigStandalone
	}
	if strings.HasPrefix(name, string(ConfigHost)) {
		return ConfigHost
	}
	return ConfigDomain
}

// sameDirectory reports whether a and b resolve to the same directory.
func sameDirectory(a, b string) bool {
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return ra == rb
}
