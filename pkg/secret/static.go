package secret

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dreams-labs/datacore/pkg/core"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// StaticProvider serves secrets from an in-memory map. It doubles as
// the test store for anything that takes a Provider.
type StaticProvider struct {
	k      *koanf.Koanf
	logger *slog.Logger
}

// NewStatic creates a provider over a fixed name-to-value map.
func NewStatic(values map[string]string, logger *slog.Logger) *StaticProvider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := make(map[string]any, len(values))
	for name, value := range values {
		m[name] = value
	}

	k := koanf.New(".")
	_ = k.Load(confmap.Provider(m, "."), nil)

	return &StaticProvider{k: k, logger: logger}
}

// Get implements Provider.
func (p *StaticProvider) Get(ctx context.Context, name string) (core.Secret, error) {
	if name == "" {
		return core.Secret{}, core.E(core.KindValidation, "secret.get", "", fmt.Errorf("secret name is empty"))
	}
	if !p.k.Exists(name) {
		return core.Secret{}, core.E(core.KindNotFound, "secret.get", name, fmt.Errorf("secret not present in static store"))
	}

	p.logger.Debug("secret resolved", "name", name, "source", "static")
	return core.Secret{
		Name:    name,
		Value:   p.k.String(name),
		Source:  "static",
		Version: "latest",
	}, nil
}

func init() {
	Register("static", func(cfg Config, logger *slog.Logger) (Provider, error) {
		return NewStatic(nil, logger), nil
	})
}
