// config.go
// ----------
// This file defines the Config structure loaded from YAML, which allows
// customization of the base URL, credentials, HTTP timeout, optional request
// pacing and the S3 bucket models may be uploaded from.
//
// Environment variables override file values (see ApplyEnv), and zero fields
// fall back to defaults (see WithDefaults).
package shapewaysbridge

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/opengovern/shapeways-bridge/modelsource"
)

// Environment variables read by ApplyEnv.
const (
	EnvClientID     = "SHAPEWAYS_CLIENT_ID"
	EnvClientSecret = "SHAPEWAYS_CLIENT_SECRET"
	EnvAccessToken  = "SHAPEWAYS_ACCESS_TOKEN"
	EnvBaseURL      = "SHAPEWAYS_BASE_URL"
	EnvDebug        = "SHAPEWAYS_DEBUG"
)

type Config struct {
	BaseURL      string `yaml:"base_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	AccessToken  string `yaml:"access_token"` // pre-issued token, skips Authenticate
	Timeout      string `yaml:"timeout"`      // e.g. "30s"
	Debug        bool   `yaml:"debug"`

	RateLimit RateLimitConfig      `yaml:"rate_limit"`
	S3        modelsource.S3Config `yaml:"s3"`
}

// RateLimitConfig enables client-side pacing when RequestsPerSecond > 0.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// WithDefaults returns a copy with empty fields filled in.
func (c Config) WithDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout.String()
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 1
	}
	return c
}

// ApplyEnv overrides fields from environment variables read via getenv.
func (c Config) ApplyEnv(getenv func(string) string) Config {
	if v := getenv(EnvClientID); v != "" {
		c.ClientID = v
	}
	if v := getenv(EnvClientSecret); v != "" {
		c.ClientSecret = v
	}
	if v := getenv(EnvAccessToken); v != "" {
		c.AccessToken = v
	}
	if v := getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := getenv(EnvDebug); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	return c
}

// LoadConfig reads a YAML config file. A missing path yields an empty config,
// so env-only setups work. Environment overrides and defaults are applied.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return cfg.ApplyEnv(os.Getenv).WithDefaults(), nil
}
