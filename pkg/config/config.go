package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const ConfigFileName = "rulegen.config.yml"

// Config defines the structure for a repository's rule compilation settings.
type Config struct {
	Enabled     bool   `yaml:"enabled" jsonschema:"description=Whether rule compilation is enabled for this repository"`
	SourceDir   string `yaml:"source_dir,omitempty" jsonschema:"description=Directory containing prompt definition XML files"`
	FragmentDir string `yaml:"fragment_dir,omitempty" jsonschema:"description=Subdirectory of source_dir holding reusable fragments (not compiled directly)"`
	OutputDir   string `yaml:"output_dir,omitempty" jsonschema:"description=Directory the compiled rule artifacts are written to"`
	Extension   string `yaml:"extension,omitempty" jsonschema:"description=File extension for compiled artifacts"`
	Workers     int    `yaml:"workers,omitempty" jsonschema:"description=Number of parallel compilations (0 = number of CPUs)"`
}

// Load attempts to load a rulegen.config.yml file from a given directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, os.ErrNotExist
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	config.ApplyDefaults()

	return &config, nil
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.SourceDir == "" {
		c.SourceDir = "prompts"
	}
	if c.FragmentDir == "" {
		c.FragmentDir = "fragments"
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(".cursor", "rules")
	}
	if c.Extension == "" {
		c.Extension = ".mdc"
	}
	if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	c := &Config{Enabled: true}
	c.ApplyDefaults()
	return c
}
