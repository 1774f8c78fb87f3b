package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads, migrates, and validates the configuration at path. A missing
// file yields the built-in defaults. Environment variables referenced as
// ${VAR} or $VAR are expanded before parsing, so hosts and paths can be kept
// in the environment. Load never writes the file back; a migrated document is
// only persisted when the caller explicitly calls Save.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes a raw YAML document, runs the migration chain, and validates
// the result.
func Parse(data []byte) (Config, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	migrated, err := Migrate(doc)
	if err != nil {
		return Config{}, err
	}

	// Round-trip the migrated document through YAML so field decoding rules
	// are identical for fresh and migrated configs.
	remarshaled, err := yaml.Marshal(migrated)
	if err != nil {
		return Config{}, fmt.Errorf("config: remarshal migrated document: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(remarshaled, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Save writes the configuration to path as YAML. This is the only persist
// path; loading and migration never write implicitly.
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config file, not a secret
		return fmt.Errorf("config: save %s: %w", path, err)
	}

	return nil
}
