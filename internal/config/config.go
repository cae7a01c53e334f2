// Package config loads headlink configuration from YAML with environment
// expansion, defaults and validation.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/headlink/internal/foundation/errors"
	"git.home.luguber.info/inful/headlink/internal/headings"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "headlink.yaml"

// EnvVault overrides the vault directory from the environment.
const EnvVault = "HEADLINK_VAULT"

// Config is the complete headlink configuration.
type Config struct {
	Vault   string        `yaml:"vault"`
	Log     LogConfig     `yaml:"log"`
	Scan    ScanConfig    `yaml:"scan"`
	Watch   WatchConfig   `yaml:"watch"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// ScanConfig controls which lines count as headings.
type ScanConfig struct {
	SkipFrontmatter bool `yaml:"skip_frontmatter"`
	SkipCodeBlocks  bool `yaml:"skip_code_blocks"`
}

// Options converts the scan settings for the heading scanner.
func (s ScanConfig) Options() headings.Options {
	return headings.Options{SkipFrontmatter: s.SkipFrontmatter, SkipCodeBlocks: s.SkipCodeBlocks}
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce      time.Duration `yaml:"debounce"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path. A missing file is an error unless
// path is DefaultFile, in which case defaults apply. Environment variables from
// .env files are loaded first and ${VAR} references in the file are expanded.
func Load(path string) (*Config, error) {
	LoadEnvFiles()

	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator supplied
	switch {
	case os.IsNotExist(err) && path == DefaultFile:
		cfg := Default()
		return cfg, finish(cfg)
	case os.IsNotExist(err):
		return nil, errors.ConfigError("configuration file not found").
			WithContext("path", path).
			Build()
	case err != nil:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return cfg, finish(cfg)
}

// Parse decodes YAML configuration, expanding ${VAR} references. Unknown keys
// are rejected. The result has defaults applied but is not validated.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration").Build()
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration").Build()
	}
	applyDefaults(cfg)
	return cfg, nil
}

func finish(cfg *Config) error {
	if v := os.Getenv(EnvVault); v != "" {
		cfg.Vault = v
	}
	return cfg.Validate()
}

func applyDefaults(cfg *Config) {
	if cfg.Vault == "" {
		cfg.Vault = "."
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = LogLevelInfo
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = LogFormatText
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 250 * time.Millisecond
	}
	if cfg.Watch.SweepInterval == 0 {
		cfg.Watch.SweepInterval = 5 * time.Minute
	}
}

// Validate normalises enum fields and checks bounds.
func (c *Config) Validate() error {
	if c.Vault == "" {
		return errors.ConfigError("vault directory is required").Build()
	}

	level, err := logLevels.Parse(string(c.Log.Level))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid log.level").Build()
	}
	c.Log.Level = level

	format, err := logFormats.Parse(string(c.Log.Format))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid log.format").Build()
	}
	c.Log.Format = format

	if c.Watch.Debounce < 0 {
		return errors.ConfigError("watch.debounce must not be negative").
			WithContext("value", c.Watch.Debounce.String()).
			Build()
	}
	if c.Watch.SweepInterval <= 0 {
		return errors.ConfigError("watch.sweep_interval must be positive").
			WithContext("value", c.Watch.SweepInterval.String()).
			Build()
	}
	return nil
}
