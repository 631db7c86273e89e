// Package config loads the settings that shape a validation pass.
package config

import (
	"net/url"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"mit.edu/dsg/planval/schema"
	"mit.edu/dsg/planval/validate"
)

const (
	DefaultSupportedVersions = validate.DefaultSupportedVersions
	DefaultCollisionPolicy   = "qualify"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
)

// Config is the root configuration structure.
type Config struct {
	Validation ValidationConfig `yaml:"validation"`
	Extensions ExtensionsConfig `yaml:"extensions"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// ValidationConfig configures plan and schema checks.
type ValidationConfig struct {
	// SupportedVersions is a semver constraint on the plan version.
	SupportedVersions string `yaml:"supported_versions"`
	// CollisionPolicy is "qualify" or "error".
	CollisionPolicy string `yaml:"collision_policy"`
	// CheckFunctions rejects function references without a declaration.
	CheckFunctions *bool `yaml:"check_functions"`
}

// ExtensionsConfig restricts where extension documents may live. An empty
// allow-list accepts any absolute URI.
type ExtensionsConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // zerolog level name
	Format string `yaml:"format"` // "json" or "console"
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	setDefaults(&cfg)
	return &cfg
}

// Load reads a YAML file, expands environment variables in it, applies
// defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse is Load without the file.
func Parse(data []byte) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	setDefaults(&cfg)
	if err := check(&cfg); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Validation.SupportedVersions == "" {
		cfg.Validation.SupportedVersions = DefaultSupportedVersions
	}
	if cfg.Validation.CollisionPolicy == "" {
		cfg.Validation.CollisionPolicy = DefaultCollisionPolicy
	}
	if cfg.Validation.CheckFunctions == nil {
		on := true
		cfg.Validation.CheckFunctions = &on
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

func check(cfg *Config) error {
	if _, err := cfg.Constraints(); err != nil {
		return err
	}
	if _, err := cfg.Collision(); err != nil {
		return err
	}
	for i, origin := range cfg.Extensions.AllowedOrigins {
		u, err := url.Parse(origin)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return errors.Newf("extensions.allowed_origins[%d] must be an absolute URL, got %q", i, origin)
		}
	}
	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		return errors.Wrapf(err, "logging.level")
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return errors.Newf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}
	return nil
}

// Constraints parses the supported version range.
func (c *Config) Constraints() (*semver.Constraints, error) {
	constraints, err := semver.NewConstraint(c.Validation.SupportedVersions)
	if err != nil {
		return nil, errors.Wrapf(err, "validation.supported_versions %q", c.Validation.SupportedVersions)
	}
	return constraints, nil
}

// Collision parses the collision policy.
func (c *Config) Collision() (schema.CollisionPolicy, error) {
	p, err := schema.ParseCollisionPolicy(c.Validation.CollisionPolicy)
	if err != nil {
		return p, errors.Wrap(err, "validation.collision_policy")
	}
	return p, nil
}

// FunctionsChecked reports whether function references are checked against
// the declared anchors.
func (c *Config) FunctionsChecked() bool {
	return c.Validation.CheckFunctions == nil || *c.Validation.CheckFunctions
}
