package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, "observer-demo", cfg.App.Name)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, LogBackendKlog, cfg.Log.Backend)
	assert.Equal(t, "text", cfg.Demo.Output)
	assert.Equal(t, []int{1, 1}, cfg.Demo.Values)
	assert.Len(t, cfg.Demo.Todos, 3)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logger:
  log-level: debug
  backend: std
demo:
  output: yaml
  values: [3, 4, 5]
  todos:
    - title: write tests
      description: with testify
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("DEMO_OUTPUT", "json")

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Verbosity())
	assert.Equal(t, LogBackendStd, cfg.Log.Backend)
	assert.Equal(t, "json", cfg.Demo.Output, "env overrides file")
	assert.Equal(t, []int{3, 4, 5}, cfg.Demo.Values)
	assert.Equal(t, []TodoSeed{{Title: "write tests", Description: "with testify"}}, cfg.Demo.Todos)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_MissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "trace level", mutate: func(c *Config) { c.Log.Level = "TRACE" }},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
		{name: "bad backend", mutate: func(c *Config) { c.Log.Backend = "zap" }, wantErr: true},
		{name: "bad output", mutate: func(c *Config) { c.Demo.Output = "xml" }, wantErr: true},
		{name: "no values", mutate: func(c *Config) { c.Demo.Values = nil }, wantErr: true},
		{name: "untitled todo", mutate: func(c *Config) { c.Demo.Todos = []TodoSeed{{Description: "x"}} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
