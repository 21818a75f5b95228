// Package config loads project configuration from datacore.yaml with
// environment variable overrides.
package config

import (
	"fmt"
	"time"

	"github.com/dreams-labs/datacore/pkg/analytics"
	"github.com/dreams-labs/datacore/pkg/objstore"
	"github.com/dreams-labs/datacore/pkg/secret"
	"github.com/dreams-labs/datacore/pkg/warehouse"
)

// AnalyticsConfig configures the analytics client. The API key is never
// stored in the config file; APIKeySecret names the secret that holds
// it.
type AnalyticsConfig struct {
	// BaseURL is the analytics service root.
	BaseURL string `koanf:"base_url"`
	// APIKeySecret names the secret holding the API key.
	APIKeySecret string `koanf:"api_key_secret"`
	// Engine selects the query engine tier: medium or large.
	Engine string `koanf:"engine"`
	// PollFloor, PollCap, and Timeout tune Execute polling.
	PollFloor time.Duration `koanf:"poll_floor"`
	PollCap   time.Duration `koanf:"poll_cap"`
	Timeout   time.Duration `koanf:"timeout"`
}

// ClientConfig combines the section with a resolved API key into the
// analytics client configuration.
func (a AnalyticsConfig) ClientConfig(apiKey string) analytics.Config {
	return analytics.Config{
		BaseURL:   a.BaseURL,
		APIKey:    apiKey,
		Engine:    a.Engine,
		PollFloor: a.PollFloor,
		PollCap:   a.PollCap,
		Timeout:   a.Timeout,
	}
}

// CacheConfig configures the object-store query cache. Credentials are
// named secrets, not literal values.
type CacheConfig struct {
	// Endpoint is the S3-compatible host.
	Endpoint string `koanf:"endpoint"`
	// Bucket is the cache bucket.
	Bucket string `koanf:"bucket"`
	// AccessKeySecret and SecretKeySecret name the secrets holding the
	// store credentials.
	AccessKeySecret string `koanf:"access_key_secret"`
	SecretKeySecret string `koanf:"secret_key_secret"`
	// Secure selects TLS.
	Secure bool `koanf:"secure"`
	// Region is optional.
	Region string `koanf:"region"`
	// Freshness is the cache window.
	Freshness time.Duration `koanf:"freshness"`
}

// StoreConfig combines the section with resolved credentials into the
// object-store configuration.
func (c CacheConfig) StoreConfig(accessKey, secretKey string) objstore.Config {
	return objstore.Config{
		Endpoint:  c.Endpoint,
		Bucket:    c.Bucket,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Secure:    c.Secure,
		Region:    c.Region,
	}
}

// Config is the full project configuration.
type Config struct {
	Warehouse warehouse.Config `koanf:"warehouse"`
	Analytics AnalyticsConfig  `koanf:"analytics"`
	Secrets   secret.Config    `koanf:"secrets"`
	Cache     CacheConfig      `koanf:"cache"`
}

// ApplyDefaults fills unset tuning fields. All defaults are plain
// configuration, overridable per project.
func (c *Config) ApplyDefaults() {
	if c == nil {
		return
	}
	if c.Analytics.Engine == "" {
		c.Analytics.Engine = analytics.EngineMedium
	}
	if c.Analytics.PollFloor <= 0 {
		c.Analytics.PollFloor = analytics.DefaultPollFloor
	}
	if c.Analytics.PollCap <= 0 {
		c.Analytics.PollCap = analytics.DefaultPollCap
	}
	if c.Analytics.Timeout <= 0 {
		c.Analytics.Timeout = analytics.DefaultTimeout
	}
	if c.Cache.Freshness <= 0 {
		c.Cache.Freshness = objstore.DefaultFreshness
	}
	if c.Secrets.Backend == "" {
		c.Secrets.Backend = "env"
	}
}

// Validate checks the configuration for contradictions. The warehouse
// type is checked against the adapter registry, so callers must import
// the adapters they intend to use.
func (c *Config) Validate() error {
	if c.Warehouse.Type != "" && !warehouse.IsRegistered(c.Warehouse.Type) {
		return &warehouse.UnknownTypeError{
			Type:      c.Warehouse.Type,
			Available: warehouse.ListTypes(),
		}
	}

	switch c.Analytics.Engine {
	case "", analytics.EngineMedium, analytics.EngineLarge:
	default:
		return fmt.Errorf("analytics.engine: unknown engine tier %q (expected %s or %s)",
			c.Analytics.Engine, analytics.EngineMedium, analytics.EngineLarge)
	}

	if c.Analytics.PollCap < c.Analytics.PollFloor {
		return fmt.Errorf("analytics.poll_cap (%s) must not be below analytics.poll_floor (%s)",
			c.Analytics.PollCap, c.Analytics.PollFloor)
	}

	if c.Cache.Endpoint != "" && c.Cache.Bucket == "" {
		return fmt.Errorf("cache.bucket is required when cache.endpoint is set")
	}

	return nil
}
