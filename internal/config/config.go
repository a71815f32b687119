// Package config loads the funsql.yaml tool configuration.
//
// The configuration names the language surface the tools analyze under
// (product mode plus enabled features), the .proto files backing PROTO
// and ENUM catalog types, the catalog files to load, and the endpoints
// of the build store and the signature service.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/funsql/internal/types"
)

// Config represents the top-level funsql.yaml configuration.
type Config struct {
	// ProductMode selects the type-system surface: "internal" (the
	// default, full surface) or "external".
	ProductMode string `yaml:"product_mode,omitempty"`

	// EnabledFeatures lists language feature names to turn on, e.g.
	// "NUMERIC_TYPE" or "TABLE_VALUED_FUNCTIONS". Features not listed
	// stay disabled.
	EnabledFeatures []string `yaml:"enabled_features,omitempty"`

	// ProtoPaths are the import roots .proto files resolve against.
	// Defaults to the current directory.
	ProtoPaths []string `yaml:"proto_paths,omitempty"`

	// ProtoFiles are the .proto files to load into the descriptor pool,
	// relative to ProtoPaths.
	ProtoFiles []string `yaml:"proto_files,omitempty"`

	// Catalogs are the catalog YAML files to load, relative to the
	// configuration file.
	Catalogs []string `yaml:"catalogs,omitempty"`

	// StorePath is the sqlite file catalog builds are recorded in.
	// Defaults to "funsql.db".
	StorePath string `yaml:"store_path,omitempty"`

	// ListenAddr is the signature service listen address. Defaults to
	// "localhost:50051".
	ListenAddr string `yaml:"listen_addr,omitempty"`
}

// DefaultConfig returns the configuration used when no funsql.yaml is
// present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a funsql.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses funsql.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for funsql.yaml starting from dir and walking up
// to parent directories. Returns the path to the config file and nil
// error if found, or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, "funsql.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		// Also check funsql.yml (common alternative)
		candidate = filepath.Join(dir, "funsql.yml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// LanguageOptions builds the language options the configuration
// describes.
func (c *Config) LanguageOptions() (*types.LanguageOptions, error) {
	mode, ok := types.ProductModeFromString(c.ProductMode)
	if !ok {
		return nil, fmt.Errorf("unknown product_mode %q", c.ProductMode)
	}
	features := make([]types.LanguageFeature, 0, len(c.EnabledFeatures))
	for _, name := range c.EnabledFeatures {
		f, ok := types.FeatureFromName(name)
		if !ok {
			return nil, fmt.Errorf("unknown language feature %q", name)
		}
		features = append(features, f)
	}
	return types.NewLanguageOptions(mode, features...), nil
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if _, err := c.LanguageOptions(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for i, file := range c.Catalogs {
		if file == "" {
			return fmt.Errorf("%s: catalogs[%d]: path is required", path, i)
		}
	}
	for i, file := range c.ProtoFiles {
		if file == "" {
			return fmt.Errorf("%s: proto_files[%d]: path is required", path, i)
		}
	}
	for i, dir := range c.ProtoPaths {
		if dir == "" {
			return fmt.Errorf("%s: proto_paths[%d]: path is required", path, i)
		}
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.ProductMode == "" {
		c.ProductMode = "internal"
	}
	if len(c.ProtoPaths) == 0 {
		c.ProtoPaths = []string{"."}
	}
	if c.StorePath == "" {
		c.StorePath = "funsql.db"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = "localhost:50051"
	}
}
