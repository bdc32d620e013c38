// Package config defines service configuration and its loading rules.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and env vars on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Default upstream classifier settings.
const (
	DefaultWatsonURL = "https://sn-watson-emotion.labs.skills.network/v1/watson.runtime.nlp.v1/NlpService/EmotionPredict"
	DefaultModelID   = "emotion_aggregated-workflow_lang_en_stock"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// WatsonURL is the EmotionPredict endpoint.
	WatsonURL string `koanf:"watson_url"`

	// ModelID selects the backend model variant.
	ModelID string `koanf:"model_id"`

	// RequestTimeoutMS bounds one classifier round trip.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":5000",
		WatsonURL:        DefaultWatsonURL,
		ModelID:          DefaultModelID,
		RequestTimeoutMS: 30_000,
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Validate checks the fields the service cannot start without.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.WatsonURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: watson_url must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.WatsonURL)
	}
	if c.ModelID == "" {
		return fmt.Errorf("%w: model_id must not be empty", ErrInvalidConfig)
	}
	if c.RequestTimeoutMS <= 0 {
		return fmt.Errorf("%w: request_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
