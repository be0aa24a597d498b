package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"protobridge-generator/internal/common"
	"protobridge-generator/primitive"
)

// Config is the root of a YAML run configuration file.
type Config struct {
	// Version of the config schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Native is the package pattern of the hand-authored types.
	Native string `yaml:"native"`

	// Wire is the package pattern of the schema-compiler output. Types
	// originating from this package classify as wire types.
	Wire string `yaml:"wire"`

	// Output is the directory generated files are written to.
	// Defaults to the native package directory, so generated
	// conversions live beside the types they convert.
	Output string `yaml:"output,omitempty"`

	// Primitives extends or replaces the primitive-name set the
	// classifier consults. Accepts a single comma-separated string or
	// a list. An entry of "default" expands to the built-in set.
	Primitives StringOrArray `yaml:"primitives,omitempty"`

	// Imports lists extra import paths for generated files. Qualified
	// directive references (pkg.Fn) resolve their package alias against
	// these and the native package's own imports.
	Imports StringOrArray `yaml:"imports,omitempty"`

	// Types lists the declarations to process, in order. Order is
	// significant: an enum is only recognized by structs declared
	// after it.
	Types []TypeEntry `yaml:"types"`
}

// TypeEntry is one declaration to process: a native struct by default,
// or an enum when Enum is set.
type TypeEntry struct {
	// Name of the native type.
	Name string `yaml:"name"`

	// Enum marks this entry as an enum declaration.
	Enum bool `yaml:"enum,omitempty"`

	// WireName renames the wire-side type (defaults to Name).
	WireName string `yaml:"wire_name,omitempty"`

	// WirePackage overrides the run-level wire package for this type.
	WirePackage string `yaml:"wire_package,omitempty"`

	// ErrorType declares a custom conversion error type. When set,
	// fallible fields construct this type instead of an auto-generated
	// one.
	ErrorType string `yaml:"error_type,omitempty"`

	// ErrorFunc is the default constructor for ErrorType, used by
	// erroring fields that do not carry their own error_fn.
	ErrorFunc string `yaml:"error_fn,omitempty"`

	// Ignore lists field names to skip: native names resolve to the
	// ignore strategy, wire-only names stay at their zero value.
	// Accepts a comma-separated string or a list; names are trimmed
	// and matched case-sensitively.
	Ignore StringOrArray `yaml:"ignore,omitempty"`
}

// StringOrArray is a string slice that can be unmarshaled from a single
// comma-separated string or a list.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		*s = SplitIgnoreList(str)

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		for i := range arr {
			arr[i] = strings.TrimSpace(arr[i])
		}
		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or list of strings, got %v", node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for StringOrArray.
func (s StringOrArray) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

var (
	ErrNoNativePackage = errors.New("config: native package pattern is required")
	ErrNoWirePackage   = errors.New("config: wire package pattern is required")
	ErrNoTypes         = errors.New("config: at least one type entry is required")
)

// LoadConfig loads and parses a YAML run configuration from the given path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML data into a Config.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config

	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "1"
	}

	for i := range cfg.Types {
		t := &cfg.Types[i]
		if t.WireName == "" {
			t.WireName = t.Name
		}
		if t.WirePackage == "" {
			t.WirePackage = cfg.Wire
		}
	}
}

// validateConfig checks the structural invariants of a parsed config.
func validateConfig(cfg *Config) error {
	if cfg.Native == "" {
		return ErrNoNativePackage
	}
	if cfg.Wire == "" {
		return ErrNoWirePackage
	}
	if len(cfg.Types) == 0 {
		return ErrNoTypes
	}

	for _, t := range cfg.Types {
		if t.Name == "" {
			return errors.New("config: type entry without a name")
		}
	}

	return nil
}

// PrimitiveNames returns the primitive-name set this run classifies
// with: the built-in set when unconfigured, otherwise the configured
// entries with "default" expanding to the built-in set.
func (cfg *Config) PrimitiveNames() []string {
	if cfg.Primitives.IsEmpty() {
		return primitive.DefaultNames()
	}

	var out []string
	for _, name := range cfg.Primitives {
		if name == "default" {
			out = append(out, primitive.DefaultNames()...)
			continue
		}
		out = append(out, name)
	}

	return out
}
