package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kirgen/errors"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "lua", cfg.Codegen.Target)
	assert.Equal(t, 0, cfg.Codegen.IndentWidth)
	assert.True(t, cfg.Codegen.PreserveSource)
	assert.Equal(t, DefaultInternalModules, cfg.Codegen.InternalModules)
	assert.Equal(t, DefaultExternalPlugins, cfg.Codegen.ExternalPlugins)
	assert.Equal(t, 4, cfg.Codegen.Parallelism)
	assert.Equal(t, "everforest", cfg.Log.Theme)
	assert.Equal(t, 300, cfg.Watch.DebounceMs)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func(mut func(c *Config)) Config {
		c := *Default()
		mut(&c)
		return c
	}

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"defaults", valid(func(c *Config) {}), false},
		{"python target", valid(func(c *Config) { c.Codegen.Target = "python" }), false},
		{"unknown target", valid(func(c *Config) { c.Codegen.Target = "hare" }), true},
		{"zero parallelism is sequential", valid(func(c *Config) { c.Codegen.Parallelism = 0 }), false},
		{"negative parallelism", valid(func(c *Config) { c.Codegen.Parallelism = -1 }), true},
		{"negative indent", valid(func(c *Config) { c.Codegen.IndentWidth = -2 }), true},
		{"semver constraint", valid(func(c *Config) { c.Codegen.CompilerVersion = ">= 1.2, < 2" }), false},
		{"bad constraint", valid(func(c *Config) { c.Codegen.CompilerVersion = "not-a-version!" }), true},
		{"empty internal module", valid(func(c *Config) { c.Codegen.InternalModules = []string{""} }), true},
		{"unknown theme", valid(func(c *Config) { c.Log.Theme = "solarized" }), true},
		{"zero rate is unlimited", valid(func(c *Config) { c.Watch.MaxRunsPerMinute = 0 }), false},
		{"negative debounce", valid(func(c *Config) { c.Watch.DebounceMs = -1 }), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_UnsupportedTargetHint(t *testing.T) {
	cfg := Default()
	cfg.Codegen.Target = "hare"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedTarget))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectConfigName)
	content := `
[codegen]
target = "python"
indent_width = 2
internal_modules = ["dsl"]

[watch]
debounce_ms = 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "python", cfg.Codegen.Target)
	assert.Equal(t, 2, cfg.Codegen.IndentWidth)
	assert.Equal(t, []string{"dsl"}, cfg.Codegen.InternalModules)
	assert.Equal(t, 50, cfg.Watch.DebounceMs)
	// Untouched keys keep their defaults
	assert.Equal(t, 4, cfg.Codegen.Parallelism)
	assert.True(t, cfg.Codegen.PreserveSource)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestWriteFile_RoundTripAndBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectConfigName)

	cfg := Default()
	cfg.Codegen.Target = "python"
	require.NoError(t, WriteFile(cfg, path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	// Second write rotates the first into .back1
	require.NoError(t, WriteFile(Default(), path))
	_, err = os.Stat(path + ".back1")
	assert.NoError(t, err)

	loaded, err = LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lua", loaded.Codegen.Target)
}

// projectDir makes dir the working directory and home for one test, with
// the cached configuration cleared before and after
func projectDir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	Reset()
	t.Cleanup(Reset)
	if content != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte(content), 0644))
	}
	return dir
}

func TestLoad_ProjectConfig(t *testing.T) {
	projectDir(t, "[codegen]\ntarget = \"python\"\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "python", cfg.Codegen.Target)

	target, err := Get("codegen.target")
	require.NoError(t, err)
	assert.Equal(t, "python", target)

	_, err = Get("codegen.no_such_key")
	assert.Error(t, err)
}

func TestLoad_MalformedProjectConfig(t *testing.T) {
	projectDir(t, "[codegen\ntarget = \"python\"\n")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ProjectConfigName)
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = Get("codegen.target")
	assert.Error(t, err)
}
