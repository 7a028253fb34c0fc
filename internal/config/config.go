package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"observer-patterns/internal/app/render"
)

// Log backends
const (
	LogBackendKlog = "klog"
	LogBackendStd  = "std"
)

// logLevels maps level names to logr verbosity
var logLevels = map[string]int{
	"info":  0,
	"debug": 2,
	"trace": 4,
}

type (
	// Config is the demo application configuration
	Config struct {
		App  `yaml:"app"`
		Log  `yaml:"logger"`
		Demo DemoConfig `yaml:"demo"`
	}

	// App holds application identity
	App struct {
		Name    string `yaml:"name" env:"APP_NAME"`
		Version string `yaml:"version" env:"APP_VERSION"`
	}

	// Log holds logging settings
	Log struct {
		Level   string `yaml:"log-level" env:"LOG_LEVEL"`
		Backend string `yaml:"backend" env:"LOG_BACKEND"`
	}
)

// NewConfig loads defaults, then the optional file at path, then env vars
func NewConfig(path string) (*Config, error) {
	cfg := &Config{}

	cfg.App.Name = "observer-demo"
	cfg.App.Version = "v1.0.0"
	cfg.Log.Level = "info"
	cfg.Log.Backend = LogBackendKlog
	cfg.Demo = DefaultDemoConfig()

	if path != "" {
		err := cleanenv.ReadConfig(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	}

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Verbosity returns the logr verbosity for the configured level
func (c *Config) Verbosity() int {
	return logLevels[strings.ToLower(c.Log.Level)]
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if _, ok := logLevels[strings.ToLower(c.Log.Level)]; !ok {
		return fmt.Errorf("unknown log level: %s", c.Log.Level)
	}

	switch c.Log.Backend {
	case LogBackendKlog, LogBackendStd:
	default:
		return fmt.Errorf("unknown log backend: %s", c.Log.Backend)
	}

	if !render.IsValidFormat(c.Demo.Output) {
		return fmt.Errorf("unknown output format: %s", c.Demo.Output)
	}

	if err := c.Demo.Validate(); err != nil {
		return fmt.Errorf("demo config validation failed: %w", err)
	}

	return nil
}
