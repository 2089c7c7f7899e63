package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads and parses a scene file. ${ENV_VAR} references are expanded
// before parsing; missing variables expand to the empty string.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("scene file not found: %s\n"+
			"Hint: check the path or run with --config", absPath)
	}

	expanded := envVarPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envVarPattern.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})

	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse scene file %s: %w", absPath, err)
	}
	cfg.SourcePath = absPath

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	// Verify against the checksum manifest when one sits next to the
	// scene file; absence just means integrity checking is not in use.
	if err := verifyIfManifestPresent(cfg.SourcePath); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Title == "" {
		cfg.App.Title = "rapidgui"
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "INFO"
	}
	if cfg.App.Tick <= 0 {
		cfg.App.Tick = Duration(16 * time.Millisecond)
	}
	if cfg.App.QueueCapacity <= 0 {
		cfg.App.QueueCapacity = 200
	}
}

// Validate checks the scene for wiring bugs that must fail at startup.
func Validate(cfg *Config) error {
	if len(cfg.Components) == 0 {
		return fmt.Errorf("scene declares no components")
	}

	seen := make(map[string]struct{}, len(cfg.Components))
	for i, comp := range cfg.Components {
		id := comp.Meta.Identifier
		if id == "" {
			return fmt.Errorf("component %d: empty identifier", i)
		}
		if comp.Meta.Type == "" {
			return fmt.Errorf("component %q: empty type", id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate component identifier %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
