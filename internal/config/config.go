// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/titanous/json5"

	"github.com/rhseung/ps-cli-sub001/internal/fetch"
)

// Config represents the CLI configuration stored in the project directory.
// All fields are optional in the file; missing values use Defaults.
type Config struct {
	// Sites
	JudgeURL       string `json:"judge_url,omitempty" validate:"required,url"`        // Judge site serving problem and workbook pages
	SolvedacURL    string `json:"solvedac_url,omitempty" validate:"required,url"`     // Metadata site serving the search page
	SolvedacAPIURL string `json:"solvedac_api_url,omitempty" validate:"required,url"` // Metadata JSON API

	// Fetching
	UserAgent        string `json:"user_agent,omitempty" validate:"required"`
	TimeoutSeconds   int    `json:"timeout_seconds,omitempty" validate:"gte=1"`
	UseBrowser       bool   `json:"use_browser,omitempty"`       // Retry problem extraction with a headless browser
	BypassCloudflare bool   `json:"bypass_cloudflare,omitempty"` // Wrap the HTTP transport with Cloudflare-friendly headers

	// Workbooks
	DefaultMode     string `json:"default_mode,omitempty" validate:"oneof=sequential unsolved failed"`
	EnrichBatchSize int    `json:"enrich_batch_size,omitempty" validate:"gte=1"`
	EnrichDelayMS   int    `json:"enrich_delay_ms,omitempty" validate:"gte=0"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		JudgeURL:        "https://www.acmicpc.net",
		SolvedacURL:     "https://solved.ac",
		SolvedacAPIURL:  "https://solved.ac/api/v3",
		UserAgent:       fetch.DefaultUserAgent,
		TimeoutSeconds:  int(fetch.DefaultTimeout / time.Second),
		DefaultMode:     "sequential",
		EnrichBatchSize: 10,
		EnrichDelayMS:   200,
	}
}

// LoadConfig loads configuration from a JSON5 file, merging a sibling
// "<name>.local.<ext>" file over it when present.
// Returns an error wrapping os.ErrNotExist if neither file exists.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	var cfg Config
	found := false

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := json5.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
		found = true
	}

	localPath := LocalPath(path)
	localData, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", localPath, err)
	}
	if len(localData) > 0 {
		var override Config
		if err := json5.Unmarshal(localData, &override); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON %s: %w", localPath, err)
		}
		if err := mergo.Merge(&cfg, override, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge local config: %w", err)
		}
		// mergo skips zero values, so an explicit false is applied separately.
		var flags boolOverrides
		if err := json5.Unmarshal(localData, &flags); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON %s: %w", localPath, err)
		}
		flags.apply(&cfg)
		slog.Debug("merging config with local overrides", "local", localPath)
		found = true
	}

	if !found {
		return nil, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
	}
	return &cfg, nil
}

// boolOverrides records which bool fields a file sets explicitly.
type boolOverrides struct {
	UseBrowser       *bool `json:"use_browser"`
	BypassCloudflare *bool `json:"bypass_cloudflare"`
}

func (o boolOverrides) apply(c *Config) {
	if o.UseBrowser != nil {
		c.UseBrowser = *o.UseBrowser
	}
	if o.BypassCloudflare != nil {
		c.BypassCloudflare = *o.BypassCloudflare
	}
}

// LocalPath returns the override file path for a config file, e.g.
// config.json -> config.local.json.
func LocalPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// Load reads the config at path if it exists, applies environment overrides
// and fills the remaining fields from Defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	merged, err := cfg.MergeWithDefaults(Defaults())
	if err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields from PS_CLI_* environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PS_CLI_JUDGE_URL", &c.JudgeURL)
	str("PS_CLI_SOLVEDAC_URL", &c.SolvedacURL)
	str("PS_CLI_SOLVEDAC_API_URL", &c.SolvedacAPIURL)
	str("PS_CLI_USER_AGENT", &c.UserAgent)

	if v, ok := lookup("PS_CLI_TIMEOUT_SECONDS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: PS_CLI_TIMEOUT_SECONDS must be an integer: %w", err)
		}
		c.TimeoutSeconds = n
	}
	for key, dst := range map[string]*bool{
		"PS_CLI_USE_BROWSER":        &c.UseBrowser,
		"PS_CLI_BYPASS_CLOUDFLARE": &c.BypassCloudflare,
	} {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("config error: %s must be a boolean: %w", key, err)
			}
			*dst = b
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// Bool fields cannot distinguish unset from false, so a true default always wins.
func (c *Config) MergeWithDefaults(defaults Config) (Config, error) {
	result := *c
	if err := mergo.Merge(&result, defaults); err != nil {
		return Config{}, fmt.Errorf("failed to apply config defaults: %w", err)
	}
	return result, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' check (value %v)", jsonName(fe.StructField()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EnrichDelay returns the pause between enrichment batches.
func (c *Config) EnrichDelay() time.Duration {
	return time.Duration(c.EnrichDelayMS) * time.Millisecond
}

// Write stores the configuration as indented JSON, creating parent directories.
func Write(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

var jsonNames = map[string]string{
	"JudgeURL":         "judge_url",
	"SolvedacURL":      "solvedac_url",
	"SolvedacAPIURL":   "solvedac_api_url",
	"UserAgent":        "user_agent",
	"TimeoutSeconds":   "timeout_seconds",
	"UseBrowser":       "use_browser",
	"BypassCloudflare": "bypass_cloudflare",
	"DefaultMode":      "default_mode",
	"EnrichBatchSize":  "enrich_batch_size",
	"EnrichDelayMS":    "enrich_delay_ms",
}

func jsonName(field string) string {
	if name, ok := jsonNames[field]; ok {
		return name
	}
	return field
}
