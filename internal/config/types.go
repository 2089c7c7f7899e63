package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses YAML scalars like "16ms" or "2s" into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got %v", n.Kind)
	}
	v, err := time.ParseDuration(n.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", n.Value, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the parsed scene description: app settings plus the declarative
// list of widgets to instantiate on the owner loop at startup.
type Config struct {
	App        AppConfig     `yaml:"app"`
	Debug      DebugConfig   `yaml:"debug"`
	Journal    JournalConfig `yaml:"journal"`
	Components []Component   `yaml:"components"`

	// Path the config was loaded from, for checksum verification.
	SourcePath string `yaml:"-"`
}

// AppConfig holds owner-loop settings.
type AppConfig struct {
	Title         string        `yaml:"title"`
	LogLevel      string        `yaml:"log_level"`
	Tick          Duration      `yaml:"tick"`
	QueueCapacity int           `yaml:"queue_capacity"`
}

// DebugConfig enables the read-only inspection HTTP server when Listen is
// set (e.g. "127.0.0.1:8099").
type DebugConfig struct {
	Listen string `yaml:"listen"`
}

// JournalConfig enables the SQLite dispatch journal when Path is set.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// Component declares one widget: stable identifier, type tag, and
// free-form construction properties interpreted by the widget type.
type Component struct {
	Meta       ComponentMeta  `yaml:"meta"`
	Properties map[string]any `yaml:"properties"`
}

// ComponentMeta identifies a component.
type ComponentMeta struct {
	Identifier string `yaml:"identifier"`
	Type       string `yaml:"type"`
}

// Defaults returns a Config with every app setting at its default.
func Defaults() *Config {
	return &Config{
		App: AppConfig{
			Title:         "rapidgui",
			LogLevel:      "INFO",
			Tick:          Duration(16 * time.Millisecond),
			QueueCapacity: 200,
		},
	}
}
