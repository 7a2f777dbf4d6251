package predict

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// DefaultEndpoint is where the prediction service listens in development.
const DefaultEndpoint = "http://localhost:8000/predict"

// Config holds the prediction client configuration.
type Config struct {
	// Endpoint is the absolute URL of the /predict route.
	Endpoint string

	// Timeout bounds a whole submission, retries included; each attempt
	// is capped by it as well. Default: 30s.
	Timeout time.Duration

	Retry RetryConfig
}

// RetryConfig configures retry behavior for transient failures.
// MaxAttempts of 1 disables retrying.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults. One attempt per
// submission.
func DefaultConfig() Config {
	return Config{
		Endpoint: DefaultEndpoint,
		Timeout:  30 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if e := os.Getenv("CROPYIELD_ENDPOINT"); e != "" {
		cfg.Endpoint = e
	}
	if t := os.Getenv("CROPYIELD_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return cfg, fmt.Errorf("CROPYIELD_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if a := os.Getenv("CROPYIELD_RETRY_ATTEMPTS"); a != "" {
		n, err := strconv.Atoi(a)
		if err != nil {
			return cfg, fmt.Errorf("CROPYIELD_RETRY_ATTEMPTS: %w", err)
		}
		cfg.Retry.MaxAttempts = n
	}

	return cfg, nil
}

// Validate checks the endpoint and limits.
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint %q must use http or https", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q has no host", c.Endpoint)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
