// Package secret resolves named credentials and configuration values
// from a secret backend.
//
// Backends register themselves by name (static, env, file, remote) and
// are selected through Config.Backend. Secrets are fetched on demand
// and are not cached across calls unless the caller explicitly wraps
// the provider with Memoize. Secret values never appear in logs.
package secret

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dreams-labs/datacore/pkg/core"
)

// Provider resolves secrets by name.
type Provider interface {
	// Get fetches the named secret. Fails with the not_found kind when
	// the backend has no such secret, access_denied when the caller
	// lacks permission, and transient on network or service faults.
	Get(ctx context.Context, name string) (core.Secret, error)
}

// Config selects and configures a secret backend.
type Config struct {
	// Backend names the registered backend: static, env, file, remote.
	Backend string `koanf:"backend"`

	// Project scopes lookups for backends that namespace secrets.
	Project string `koanf:"project"`

	// Version selects a secret version where the backend supports
	// versioning. Defaults to "latest".
	Version string `koanf:"version"`

	// Prefix is the environment variable prefix for the env backend.
	Prefix string `koanf:"prefix"`

	// Path is the secrets file location for the file backend.
	Path string `koanf:"path"`

	// Endpoint is the base URL of the remote secret service.
	Endpoint string `koanf:"endpoint"`

	// Token authenticates against the remote secret service.
	Token string `koanf:"token"`
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(Config, *slog.Logger) (Provider, error))
)

// Register adds a backend factory to the registry.
func Register(name string, factory func(Config, *slog.Logger) (Provider, error)) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New creates a provider for the backend named by cfg.Backend.
// A nil logger uses a discard logger.
func New(cfg Config, logger *slog.Logger) (Provider, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Backend == "" {
		cfg.Backend = "env"
	}
	if cfg.Version == "" {
		cfg.Version = "latest"
	}

	registryMu.RLock()
	factory, ok := registry[cfg.Backend]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown secret backend %q\nAvailable backends: %v\nHint: check secrets.backend in datacore.yaml", cfg.Backend, ListBackends())
	}
	return factory(cfg, logger)
}

// ListBackends returns all registered backend names (sorted).
func ListBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
