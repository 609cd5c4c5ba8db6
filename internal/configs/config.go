package configs

import (
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/lockfiles/internal/codec"
	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
	"github.com/PolarWolf314/lockfiles/internal/transition"
)

// Config is the contents of config.toml.
type Config struct {
	Defaults Defaults `toml:"defaults"`
}

// Defaults are used for every flag not given on the command line.
type Defaults struct {
	Suffix          string `toml:"suffix" json:"suffix"`
	Overwrite       bool   `toml:"overwrite" json:"overwrite"`
	ContinueOnError bool   `toml:"continue_on_error" json:"continue_on_error"`
	Recurse         bool   `toml:"recurse" json:"recurse"`
	KeyScheme       string `toml:"key_scheme" json:"key_scheme"`
	PasswordFile    string `toml:"password_file" json:"password_file"`
	AuditLog        string `toml:"audit_log" json:"audit_log"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Defaults: Defaults{
			Suffix:    transition.DefaultSuffix,
			Recurse:   true,
			KeyScheme: codec.SchemeDigest.String(),
		},
	}
}

// LoadConfig loads the configuration at path on top of the built-in
// defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes config to path, creating parent directories.
func SaveConfig(path string, config *Config) error {
	if err := SaveTOML(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate rejects values no run could use.
func (c *Config) Validate() error {
	if _, err := codec.ParseKeyScheme(c.Defaults.KeyScheme); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}
	if strings.ContainsAny(c.Defaults.Suffix, `/\`) {
		return fmt.Errorf("%w: suffix %q must not contain a path separator", kerrors.ErrInvalidConfig, c.Defaults.Suffix)
	}
	return nil
}

// Policy returns the transition policy described by the defaults.
func (c *Config) Policy() transition.Policy {
	return transition.Policy{
		Suffix:          c.Defaults.Suffix,
		Overwrite:       c.Defaults.Overwrite,
		ContinueOnError: c.Defaults.ContinueOnError,
	}
}
