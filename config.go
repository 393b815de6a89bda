package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Environment selects which hosted checkout deployment the client talks to.
type Environment string

const (
	EnvironmentSandbox    Environment = "sandbox"
	EnvironmentProduction Environment = "production"
)

const (
	sandboxBaseURL    = "https://api.sandbox.coinpath.io"
	productionBaseURL = "https://api.coinpath.io"
)

// Config carries the account credentials and target environment. It is set
// once at client construction and never mutated afterwards.
type Config struct {
	// KeyID identifies the API key pair issued in the merchant dashboard.
	KeyID string `env:"CHECKOUT_KEY_ID"`
	// SecretKey signs every request. Keep it out of logs and client builds.
	SecretKey string `env:"CHECKOUT_SECRET_KEY"`
	// Environment picks the deployment; defaults to sandbox.
	Environment Environment `env:"CHECKOUT_ENVIRONMENT" envDefault:"sandbox"`
	// BaseURL overrides the environment's endpoint, e.g. for test servers.
	BaseURL string `env:"CHECKOUT_BASE_URL"`
}

// ConfigFromEnv loads a [Config] from CHECKOUT_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("checkout: parse environment: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.KeyID == "" {
		return errors.New("checkout: config requires a key id")
	}
	if c.SecretKey == "" {
		return errors.New("checkout: config requires a secret key")
	}
	if c.BaseURL == "" {
		switch c.Environment {
		case "", EnvironmentSandbox, EnvironmentProduction:
		default:
			return fmt.Errorf("checkout: unknown environment %q", c.Environment)
		}
		return nil
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("checkout: invalid base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("checkout: base url %q must carry scheme and host", c.BaseURL)
	}
	return nil
}

func (c Config) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if c.Environment == EnvironmentProduction {
		return productionBaseURL
	}
	return sandboxBaseURL
}

// host reduces the base URL to scheme and host only; the path, if any, never
// enters the signing string.
func (c Config) host() (string, error) {
	parsed, err := url.Parse(c.baseURL())
	if err != nil {
		return "", fmt.Errorf("checkout: parse base url: %w", err)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}
