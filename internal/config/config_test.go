package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadConfig_JSON5(t *testing.T) {
	content := `{
		// comments and trailing commas are allowed
		judge_url: "https://judge.example.com",
		timeout_seconds: 5,
		use_browser: true,
	}`

	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, content)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://judge.example.com", cfg.JudgeURL)
	assert.Equal(t, 5, cfg.TimeoutSeconds)
	assert.True(t, cfg.UseBrowser)
}

func TestLoadConfig_LocalOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeFile(t, path, `{"judge_url": "https://judge.example.com", "timeout_seconds": 5}`)
	writeFile(t, filepath.Join(dir, "config.local.json"), `{"timeout_seconds": 60}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://judge.example.com", cfg.JudgeURL)
	assert.Equal(t, 60, cfg.TimeoutSeconds)
}

func TestLoadConfig_LocalOverrideCanDisableBools(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeFile(t, path, `{"use_browser": true, "bypass_cloudflare": true, "timeout_seconds": 5}`)
	writeFile(t, filepath.Join(dir, "config.local.json"), `{use_browser: false}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.UseBrowser)
	assert.True(t, cfg.BypassCloudflare, "unset keys keep the base value")
	assert.Equal(t, 5, cfg.TimeoutSeconds)
}

func TestLoadConfig_OnlyLocalFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.local.json"), `{"default_mode": "failed"}`)

	cfg, err := LoadConfig(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, "failed", cfg.DefaultMode)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{ invalid json `)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.json"))
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "config.local.json"), LocalPath(filepath.Join("a", "config.json")))
	assert.Equal(t, "settings.local", LocalPath("settings"))
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{JudgeURL: "https://judge.example.com", EnrichBatchSize: 3}

	merged, err := cfg.MergeWithDefaults(Defaults())
	require.NoError(t, err)
	assert.Equal(t, "https://judge.example.com", merged.JudgeURL)
	assert.Equal(t, 3, merged.EnrichBatchSize)
	assert.Equal(t, "https://solved.ac", merged.SolvedacURL)
	assert.Equal(t, "sequential", merged.DefaultMode)
	assert.Equal(t, 30, merged.TimeoutSeconds)
	assert.Equal(t, 200, merged.EnrichDelayMS)
	assert.NotEmpty(t, merged.UserAgent)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PS_CLI_JUDGE_URL":         "https://mirror.example.com",
		"PS_CLI_TIMEOUT_SECONDS":   "12",
		"PS_CLI_USE_BROWSER":       "true",
		"PS_CLI_BYPASS_CLOUDFLARE": "1",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := &Config{JudgeURL: "https://judge.example.com"}
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "https://mirror.example.com", cfg.JudgeURL)
	assert.Equal(t, 12, cfg.TimeoutSeconds)
	assert.True(t, cfg.UseBrowser)
	assert.True(t, cfg.BypassCloudflare)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "timeout", env: map[string]string{"PS_CLI_TIMEOUT_SECONDS": "soon"}},
		{name: "browser", env: map[string]string{"PS_CLI_USE_BROWSER": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(key string) (string, bool) {
				v, ok := tt.env[key]
				return v, ok
			}
			cfg := &Config{}
			assert.Error(t, cfg.ApplyEnv(lookup))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "bad url", modify: func(c *Config) { c.JudgeURL = "not a url" }, wantErr: "judge_url"},
		{name: "unknown mode", modify: func(c *Config) { c.DefaultMode = "random" }, wantErr: "default_mode"},
		{name: "zero batch", modify: func(c *Config) { c.EnrichBatchSize = 0 }, wantErr: "enrich_batch_size"},
		{name: "negative delay", modify: func(c *Config) { c.EnrichDelayMS = -1 }, wantErr: "enrich_delay_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PS_CLI_JUDGE_URL", "")
	t.Setenv("PS_CLI_TIMEOUT_SECONDS", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	def := Defaults()
	assert.Equal(t, def.JudgeURL, cfg.JudgeURL)
	assert.Equal(t, def.EnrichBatchSize, cfg.EnrichBatchSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"timeout_seconds": 5}`)
	t.Setenv("PS_CLI_TIMEOUT_SECONDS", "9")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.TimeoutSeconds)
}

func TestWrite_ThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	require.NoError(t, Write(path, Defaults()))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)
}

func TestDurations(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "30s", cfg.Timeout().String())
	assert.Equal(t, "200ms", cfg.EnrichDelay().String())
}
