// Package config loads the connection settings for the remote control.
//
// Settings come from YAML files (the default ~/gpmdp_rc.yaml) or HCL files
// ending in .hcl. Later sources override the non-empty values of earlier
// ones.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultFileName is looked up in the user's home directory.
const DefaultFileName = "gpmdp_rc.yaml"

// Config holds the resolved settings.
type Config struct {
	URL     string
	Token   string
	AppName string
	Timeout time.Duration
}

// fileConfig is the on-disk shape shared by both formats.
type fileConfig struct {
	URL     string `yaml:"url" hcl:"url,optional"`
	Token   string `yaml:"token" hcl:"token,optional"`
	AppName string `yaml:"app_name" hcl:"app_name,optional"`
	Timeout string `yaml:"timeout" hcl:"timeout,optional"`
}

// ConfigBuilder provides a fluent interface for loading a Config.
type ConfigBuilder struct {
	logger  *zap.Logger
	sources []string
}

// NewConfig creates a new config builder.
func NewConfig() *ConfigBuilder {
	return &ConfigBuilder{
		logger:  zap.NewNop(),
		sources: make([]string, 0),
	}
}

// WithLogger sets the logger.
func (cb *ConfigBuilder) WithLogger(logger *zap.Logger) *ConfigBuilder {
	if logger != nil {
		cb.logger = logger
	}
	return cb
}

// WithSources appends config file paths.
func (cb *ConfigBuilder) WithSources(paths ...string) *ConfigBuilder {
	cb.sources = append(cb.sources, paths...)
	return cb
}

// Build reads every source in order and merges them.
func (cb *ConfigBuilder) Build() (*Config, error) {
	merged := fileConfig{}

	for _, path := range cb.sources {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		var fc fileConfig
		switch strings.ToLower(filepath.Ext(path)) {
		case ".hcl":
			err = parseHCL(path, data, &fc)
		default:
			err = parseYAML(path, data, &fc)
		}
		if err != nil {
			return nil, err
		}

		cb.logger.Debug("Loaded config file", zap.String("path", path))
		merged.merge(fc)
	}

	cfg := &Config{
		URL:     merged.URL,
		Token:   merged.Token,
		AppName: merged.AppName,
	}

	if merged.Timeout != "" {
		timeout, err := time.ParseDuration(merged.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", merged.Timeout, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("invalid timeout %q: must be positive", merged.Timeout)
		}
		cfg.Timeout = timeout
	}

	return cfg, nil
}

func (fc *fileConfig) merge(other fileConfig) {
	if other.URL != "" {
		fc.URL = other.URL
	}
	if other.Token != "" {
		fc.Token = other.Token
	}
	if other.AppName != "" {
		fc.AppName = other.AppName
	}
	if other.Timeout != "" {
		fc.Timeout = other.Timeout
	}
}

// Validate checks that the settings needed to connect are present. The
// token is not needed when pairing, which obtains one.
func (c *Config) Validate(requireToken bool) error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if requireToken && c.Token == "" {
		return fmt.Errorf("token is required, run auth to obtain one")
	}
	return nil
}

// DefaultPath returns $HOME/gpmdp_rc.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, DefaultFileName), nil
}
