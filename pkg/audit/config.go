package audit

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the static configuration of an audit run: the skip registries,
// the docstring checksum registry, deprecation policy, and the class/factory
// registries. All of it is data, supplied alongside the library manifest.
type Config struct {
	// Package overrides the manifest's package name when non-empty.
	Package string `yaml:"package,omitempty"`

	// Verbosity controls the trace channel; a message tagged with level N is
	// emitted when Verbosity > N.
	Verbosity int `yaml:"verbosity"`

	// SkipFunctions lists qualified callable names excluded from checking
	// entirely (special cases such as legacy entry points).
	SkipFunctions []string `yaml:"skip_functions,omitempty"`

	// SkipKeywords maps a qualified callable name to parameter or keyword
	// names excluded from checking for that callable only.
	SkipKeywords map[string][]string `yaml:"skip_keywords,omitempty"`

	// DocstringHashes maps a qualified callable name to the expected MD5 hex
	// digest of its docstring concatenated with its source text. Registered
	// callables take variadic positional arguments whose documentation cannot
	// be mechanically verified; a digest mismatch forces a manual re-review.
	DocstringHashes map[string]string `yaml:"docstring_hashes,omitempty"`

	Deprecation DeprecationConfig `yaml:"deprecation"`

	Classes ClassRegistry `yaml:"classes"`
}

// DeprecationConfig configures the deprecation consistency pass.
type DeprecationConfig struct {
	// WarningPattern is a regular expression that must match the source text
	// of any callable carrying the formal deprecation directive, proving the
	// callable issues a deprecation-category runtime warning.
	WarningPattern string `yaml:"warning_pattern"`

	// RemovedNames lists legacy callable names asserted to no longer exist
	// anywhere in the library, guarding against regressions.
	RemovedNames []string `yaml:"removed_names,omitempty"`
}

// ClassRegistry drives the class/factory documentation consistency checks.
type ClassRegistry struct {
	// StdAttributes are attributes common to every primary class and required
	// in each primary class docstring.
	StdAttributes []string `yaml:"std_attributes,omitempty"`

	// StdFactoryArgs are arguments common to every factory function and
	// required in each factory function docstring.
	StdFactoryArgs []string `yaml:"std_factory_args,omitempty"`

	// ParentAttributes are commonly inherited attributes; finding one of
	// these documented only on an ancestor does not warrant a warning.
	ParentAttributes []string `yaml:"parent_attributes,omitempty"`

	Primary []PrimaryClass `yaml:"primary,omitempty"`

	// Containers are base classes that must document every runtime attribute
	// somewhere in their ancestor chain.
	Containers []string `yaml:"containers,omitempty"`

	// Intermediate classes are composed-system wrappers that are never
	// constructed directly: they must not carry a Parameters section but
	// must reference their factory function.
	Intermediate []IntermediateClass `yaml:"intermediate,omitempty"`

	// FactoryArgs maps a factory function name to the arguments documented
	// only on the factory, never on the class.
	FactoryArgs map[string][]string `yaml:"factory_args,omitempty"`
}

// PrimaryClass registers one primary data class and its constructing factory.
type PrimaryClass struct {
	Class   string `yaml:"class"`
	Factory string `yaml:"factory"`

	// Args are the minimal arguments needed to initialize the class, which
	// the class docstring must document. Optional construction arguments
	// belong to the factory function instead.
	Args []string `yaml:"args,omitempty"`

	// Attributes are class-specific attributes required in the class
	// docstring beyond StdAttributes.
	Attributes []string `yaml:"attributes,omitempty"`

	// IgnoreAttributes are instance attributes excluded from the attribute
	// scan for this class.
	IgnoreAttributes []string `yaml:"ignore_attributes,omitempty"`
}

// IntermediateClass registers one composed-system wrapper class.
type IntermediateClass struct {
	Class   string `yaml:"class"`
	Factory string `yaml:"factory"`
}

// DefaultConfig returns an audit configuration with empty registries and the
// standard deprecation warning idiom.
func DefaultConfig() *Config {
	return &Config{
		Verbosity:       1,
		SkipKeywords:    make(map[string][]string),
		DocstringHashes: make(map[string]string),
		Deprecation: DeprecationConfig{
			WarningPattern: "FutureWarning",
		},
		Classes: ClassRegistry{
			FactoryArgs: make(map[string][]string),
		},
	}
}

// LoadConfig loads an audit configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if config.Deprecation.WarningPattern == "" {
		config.Deprecation.WarningPattern = "FutureWarning"
	}
	return config, nil
}

// LoadConfigFromDir searches a directory for an audit config file.
func LoadConfigFromDir(dir string) (*Config, error) {
	configNames := []string{"docaudit.yaml", "docaudit.yml", ".docaudit.yaml", ".docaudit.yml"}

	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		}
	}

	return DefaultConfig(), nil
}

// SaveConfig writes an audit configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SkippedFunction reports whether a qualified callable name is excluded from
// checking entirely.
func (c *Config) SkippedFunction(qualname string) bool {
	for _, name := range c.SkipFunctions {
		if name == qualname {
			return true
		}
	}
	return false
}

// SkippedKeyword reports whether a parameter name is excluded from checking
// for the given qualified callable name.
func (c *Config) SkippedKeyword(qualname, arg string) bool {
	for _, name := range c.SkipKeywords[qualname] {
		if name == arg {
			return true
		}
	}
	return false
}
