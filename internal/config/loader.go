package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = "FACTORYGEN_CONFIG"

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "factorygen.yaml"

// CurrentVersion is the only supported schema version.
const CurrentVersion = "1"

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)

	return c
}

// LoadFile loads and parses a YAML config file from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Config. Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	var c Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&c)

	return &c, nil
}

// Resolve loads the config from path, else from $FACTORYGEN_CONFIG, else from
// DefaultFile when it exists, else returns Default().
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	if path != "" {
		return LoadFile(path)
	}

	if _, err := os.Stat(DefaultFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}

		return nil, err
	}

	return LoadFile(DefaultFile)
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(c *Config) {
	if c.Version == "" {
		c.Version = CurrentVersion
	}

	if c.RuntimeImport == "" {
		c.RuntimeImport = "factory-generator/factory"
	}

	if c.OutputSuffix == "" {
		c.OutputSuffix = "_factory.go"
	}

	if c.Defaults.IDName == "" {
		c.Defaults.IDName = "id"
	}

	if c.Defaults.IDType == "" {
		c.Defaults.IDType = "int32"
	}

	if c.Defaults.Connection == "" {
		c.Defaults.Connection = c.RuntimeImport + ".Store"
	}
}

// WriteFile writes c to path as YAML.
func WriteFile(c *Config, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}
