package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return f
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Compute.Workers != 0 {
		t.Errorf("expected workers 0, got %d", cfg.Compute.Workers)
	}
	if cfg.Compute.DType != "float64" {
		t.Errorf("expected dtype float64, got %s", cfg.Compute.DType)
	}
	if cfg.Output.Precision != -1 {
		t.Errorf("expected precision -1, got %d", cfg.Output.Precision)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("expected format yaml, got %s", cfg.Output.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative workers", func(c *Config) { c.Compute.Workers = -2 }},
		{"bad dtype", func(c *Config) { c.Compute.DType = "complex128" }},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }},
		{"bad precision", func(c *Config) { c.Output.Precision = -5 }},
		{"zero precision", func(c *Config) { c.Output.Precision = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	yamlContent := `
compute:
  workers: 4
  dtype: float32
output:
  precision: 6
  format: json
logging:
  level: debug
  log_file: linalg.log
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))

	assert.Equal(t, 4, cfg.Compute.Workers)
	assert.Equal(t, "float32", cfg.Compute.DType)
	assert.Equal(t, 6, cfg.Output.Precision)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "linalg.log", cfg.Logging.LogFile)
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(configPath, []byte("output:\n  format: json\n"), 0644))

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, configPath))
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, -1, cfg.Output.Precision)
	assert.Equal(t, "float64", cfg.Compute.DType)
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(configPath, nil, 0644))

	cfg := Default()
	assert.NoError(t, loadFromFile(cfg, configPath))
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	invalid := filepath.Join(tmpDir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("compute:\n  workers: many\n  invalid syntax here\n"), 0644))
	if err := loadFromFile(Default(), invalid); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}

	unknown := filepath.Join(tmpDir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("compute:\n  wokers: 2\n"), 0644))
	if err := loadFromFile(Default(), unknown); err == nil {
		t.Error("expected error for unknown key, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/linalg.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	require.NoError(t, os.Chdir(tmpDir))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte("compute:\n  workers: 2\n"), 0644))
	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"--debug"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "compute flags",
			args: []string{"-w", "3", "--dtype", "int32"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3, cfg.Compute.Workers)
				assert.Equal(t, "int32", cfg.Compute.DType)
			},
		},
		{
			name: "output flags",
			args: []string{"--format", "json", "-p", "4"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "json", cfg.Output.Format)
				assert.Equal(t, 4, cfg.Output.Precision)
			},
		},
		{
			name: "unset flags leave config alone",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			applyFlags(cfg, newFlags(t, tt.args...))
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	yamlContent := `
compute:
  workers: 8
output:
  precision: 3
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg, err := Load(newFlags(t, "--config", configPath, "--workers", "2"))
	require.NoError(t, err)

	// Workers from the flag, precision from the file
	assert.Equal(t, 2, cfg.Compute.Workers)
	assert.Equal(t, 3, cfg.Output.Precision)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestLoadRejectsInvalidResult(t *testing.T) {
	_, err := Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, err = Load(newFlags(t, "--format", "toml"))
	assert.Error(t, err)
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Compute.Workers = 6
	cfg.Output.Format = "json"
	require.NoError(t, cfg.SaveTo(path))

	loaded := Default()
	require.NoError(t, loadFromFile(loaded, path))
	assert.Equal(t, cfg, loaded)
}

func TestSave(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("APPDATA", t.TempDir())

	cfg := Default()
	cfg.Logging.Level = "warn"
	require.NoError(t, cfg.Save())

	_, err := os.Stat(filepath.Join(ConfigDir(), FileName))
	assert.NoError(t, err)
}
