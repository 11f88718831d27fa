// Package config handles CLI configuration: named registry endpoints and
// tool overrides.
//
// Config is stored at $XDG_CONFIG_HOME/veripack/config.yaml (defaults to
// ~/.config/veripack/config.yaml) and follows the kubeconfig pattern: named
// registries with a current-registry selector.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"veripack/registry"
)

// Registry describes one package registry endpoint.
type Registry struct {
	URL string `yaml:"url"`
}

// Config holds named registries, the current selection, and tool overrides.
type Config struct {
	CurrentRegistry string              `yaml:"current-registry,omitempty"`
	Registries      map[string]Registry `yaml:"registries,omitempty"`

	// Executable overrides; empty means PATH lookup.
	GitBinary string `yaml:"git-binary,omitempty"`
	NpmBinary string `yaml:"npm-binary,omitempty"`
}

// Path returns the config file location. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/veripack/config.yaml.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "veripack", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "veripack", "config.yaml")
}

// Load reads the config file. If the file does not exist, an empty Config
// is returned (not an error).
func Load() (*Config, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{Registries: make(map[string]Registry)}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Registries == nil {
		cfg.Registries = make(map[string]Registry)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating directories as needed.
func (c *Config) Save() error {
	p := Path()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// RegistryURL returns the URL of the current registry, falling back to the
// public npm registry when none is selected.
func (c *Config) RegistryURL() string {
	if c.CurrentRegistry == "" {
		return registry.DefaultBaseURL
	}
	r, ok := c.Registries[c.CurrentRegistry]
	if !ok || r.URL == "" {
		return registry.DefaultBaseURL
	}
	return r.URL
}

// Use sets the current registry. It returns an error if the name doesn't
// exist.
func (c *Config) Use(name string) error {
	if _, ok := c.Registries[name]; !ok {
		return fmt.Errorf("registry %q not found", name)
	}
	c.CurrentRegistry = name
	return nil
}

// Set adds or updates a named registry.
func (c *Config) Set(name string, r Registry) {
	c.Registries[name] = r
}

// Remove deletes a registry. If it was the current one, current-registry is
// cleared. Returns an error if the name doesn't exist.
func (c *Config) Remove(name string) error {
	if _, ok := c.Registries[name]; !ok {
		return fmt.Errorf("registry %q not found", name)
	}
	delete(c.Registries, name)
	if c.CurrentRegistry == name {
		c.CurrentRegistry = ""
	}
	return nil
}
