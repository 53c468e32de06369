package lode

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config controls an exploration run.
type Config struct {
	// Search strategy: "dfs", "bfs", "random", "random-path", or "targeted".
	Strategy string `yaml:"strategy"`

	// Source locations to guide toward when strategy is "targeted".
	Targets []LocationConfig `yaml:"targets"`

	// Bounds for symbolic pointer resolution. Zero means unbounded.
	MaxResolutions int      `yaml:"max_resolutions"`
	SolverTimeout  Duration `yaml:"solver_timeout"`

	// Maximum number of states to execute before giving up. Zero means unbounded.
	MaxStates int `yaml:"max_states"`

	// Target platform. Defaults to the host platform.
	OS   string `yaml:"os"`
	Arch string `yaml:"arch"`
}

// DefaultConfig returns a config with default settings.
func DefaultConfig() Config {
	return Config{Strategy: "dfs"}
}

// ParseConfig parses a YAML config. Unknown fields are rejected.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && err != io.EOF {
		return config, err
	}

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// LoadConfigFile reads and parses a YAML config from path.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), err
	}
	return ParseConfig(data)
}

// Validate returns an error if the config is inconsistent.
func (c Config) Validate() error {
	switch c.Strategy {
	case "dfs", "bfs", "random", "random-path":
	case "targeted":
		if len(c.Targets) == 0 {
			return fmt.Errorf("lode: targeted strategy requires at least one target")
		}
	default:
		return fmt.Errorf("lode: unknown search strategy: %q", c.Strategy)
	}

	for i, target := range c.Targets {
		if target.File == "" {
			return fmt.Errorf("lode: target %d: file required", i)
		} else if target.Line <= 0 {
			return fmt.Errorf("lode: target %d: line must be positive", i)
		}
	}

	if c.MaxResolutions < 0 {
		return fmt.Errorf("lode: max_resolutions cannot be negative")
	} else if c.MaxStates < 0 {
		return fmt.Errorf("lode: max_states cannot be negative")
	}

	if (c.OS == "") != (c.Arch == "") {
		return fmt.Errorf("lode: os & arch must be set together")
	} else if c.OS != "" && !isValidOSArch(c.OS, c.Arch) {
		return fmt.Errorf("lode: invalid os/arch combination: %s/%s", c.OS, c.Arch)
	}
	return nil
}

// LocationConfig represents a target location in a config file.
type LocationConfig struct {
	File string `yaml:"file"`
	Line int    `yaml:"line"`
}

// Location converts the config entry to a Location.
func (c LocationConfig) Location() Location {
	return Location{File: c.File, Line: c.Line}
}

// Duration wraps time.Duration to decode YAML values such as "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	v, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("lode: invalid duration: %q", value.Value)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}
