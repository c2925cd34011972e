// Package config loads runtime configuration from the environment (and an
// optional .env file) and from a YAML provider-set file, mirroring the two
// loading paths a deployed agent needs: secrets/tuning via env, multi-provider
// topology via a checked-in YAML document.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds process-wide settings sourced from the environment.
type Config struct {
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	MiniMaxAPIKey   string `envconfig:"MINIMAX_API_KEY"`

	DefaultModel       string        `envconfig:"DEFAULT_MODEL" default:"gpt-4o-mini"`
	DefaultTemperature float64       `envconfig:"DEFAULT_TEMPERATURE" default:"0.1"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	MaxIterations      int           `envconfig:"MAX_ITERATIONS" default:"10"`
}

// String renders the config with secrets redacted, safe to log.
func (c *Config) String() string {
	redact := func(key string) string {
		if key == "" {
			return "(unset)"
		}
		return "***redacted***"
	}
	return fmt.Sprintf(
		"Config{OpenAIAPIKey:%s AnthropicAPIKey:%s MiniMaxAPIKey:%s DefaultModel:%s DefaultTemperature:%v RequestTimeout:%s LogLevel:%s MaxIterations:%d}",
		redact(c.OpenAIAPIKey), redact(c.AnthropicAPIKey), redact(c.MiniMaxAPIKey),
		c.DefaultModel, c.DefaultTemperature, c.RequestTimeout, c.LogLevel, c.MaxIterations,
	)
}

// findDotEnv walks up from the working directory looking for a .env file,
// the same lenient discovery a developer running from a subpackage expects.
func findDotEnv() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load reads a .env file if one is found on the path above the working
// directory, then fills Config from the environment. A missing .env is not
// an error; a malformed one, or an environment value that does not parse
// into its field's type, is returned as an error.
func Load() (*Config, error) {
	if path := findDotEnv(); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("config: loading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: processing environment: %w", err)
	}
	return &cfg, nil
}
