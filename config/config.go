// Package config loads gateway settings from the environment and an optional
// YAML file.
//
// Secrets come only from the environment (optionally seeded from a .env
// file). Tunables come from built-in defaults, then the YAML file named by
// GENGATE_CONFIG, then GENGATE_LOG_* overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spetersoncode/gengate/keypool"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY" // numbered _1 .. _9, or bare
	EnvConfigFile   = "GENGATE_CONFIG"
	EnvLogLevel     = "GENGATE_LOG_LEVEL"
	EnvLogFormat    = "GENGATE_LOG_FORMAT"
	EnvLogFile      = "GENGATE_LOG_FILE"
)

// MaxGeminiKeys is the highest numbered Gemini key read.
const MaxGeminiKeys = 9

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the gateway configuration.
type Config struct {
	// API keys, never read from the YAML file.
	AnthropicKey string   `yaml:"-"`
	OpenAIKey    string   `yaml:"-"`
	GeminiKeys   []string `yaml:"-"`

	Retry RetrySettings `yaml:"retry"`

	// BatchConcurrency caps concurrent requests in a batch. 0 = unlimited.
	BatchConcurrency int `yaml:"batch_concurrency" validate:"gte=0"`

	// MaxTokens is the output limit used when a request leaves it unset.
	MaxTokens int `yaml:"max_tokens" validate:"gte=0"`

	Log LogConfig `yaml:"log"`
}

// RetrySettings configures the fallback executor's backoff.
type RetrySettings struct {
	InitialDelay time.Duration `yaml:"initial_delay" validate:"gte=0"`
	MaxDelay     time.Duration `yaml:"max_delay" validate:"gtefield=InitialDelay"`
	MaxRetries   int           `yaml:"max_retries" validate:"gte=0,lte=10"`
}

// LogConfig configures the logger built by NewLogger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`

	// File, when set, sends output to a size-rotated file instead of stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the built-in configuration without any keys.
func Default() *Config {
	return &Config{
		Retry: RetrySettings{
			InitialDelay: time.Second,
			MaxDelay:     10 * time.Second,
			MaxRetries:   2,
		},
		MaxTokens: 4096,
		Log: LogConfig{
			Level:     "info",
			Format:    "json",
			MaxSizeMB: 10,
		},
	}
}

// Load loads configuration from the process environment.
// It loads a .env file if present (silent fail if not found).
func Load() (*Config, error) {
	godotenv.Load() // Load .env file if present
	return LoadFrom(os.LookupEnv)
}

// LoadFrom builds a configuration using lookup for every variable.
func LoadFrom(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path := getEnv(lookup, EnvConfigFile); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.AnthropicKey = getEnv(lookup, EnvAnthropicKey)
	cfg.OpenAIKey = getEnv(lookup, EnvOpenAIKey)
	cfg.GeminiKeys = keypool.EnvSecrets(EnvGeminiKey, MaxGeminiKeys, lookup)

	if v := getEnv(lookup, EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := getEnv(lookup, EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
	if v := getEnv(lookup, EnvLogFile); v != "" {
		cfg.Log.File = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile overlays the YAML file at path onto c. Fields absent from the
// file keep their current values.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// HasAnyKey reports whether at least one provider key is configured.
func (c *Config) HasAnyKey() bool {
	return c.AnthropicKey != "" || c.OpenAIKey != "" || len(c.GeminiKeys) > 0
}

func getEnv(lookup func(string) (string, bool), key string) string {
	if value, ok := lookup(key); ok {
		return value
	}
	return ""
}
