package secret

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dreams-labs/datacore/pkg/core"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the environment variable prefix for the env
// backend when none is configured.
const DefaultEnvPrefix = "DATACORE_SECRET_"

// EnvProvider resolves secrets from environment variables. The secret
// name "db_password" maps to DATACORE_SECRET_DB_PASSWORD under the
// default prefix.
type EnvProvider struct {
	prefix string
	logger *slog.Logger
}

// NewEnv creates an environment-variable provider.
func NewEnv(prefix string, logger *slog.Logger) *EnvProvider {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EnvProvider{prefix: prefix, logger: logger}
}

// Get implements Provider. The environment is re-read on every call so
// the backend reflects the current process state.
func (p *EnvProvider) Get(ctx context.Context, name string) (core.Secret, error) {
	if name == "" {
		return core.Secret{}, core.E(core.KindValidation, "secret.get", "", fmt.Errorf("secret name is empty"))
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider(p.prefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, p.prefix))
	}), nil); err != nil {
		return core.Secret{}, core.E(core.KindTransient, "secret.get", name, err)
	}

	key := strings.ToLower(name)
	if !k.Exists(key) {
		return core.Secret{}, core.E(core.KindNotFound, "secret.get", name,
			fmt.Errorf("environment variable %s%s not set", p.prefix, strings.ToUpper(name)))
	}

	p.logger.Debug("secret resolved", "name", name, "source", "env")
	return core.Secret{
		Name:    name,
		Value:   k.String(key),
		Source:  "env",
		Version: "latest",
	}, nil
}

func init() {
	Register("env", func(cfg Config, logger *slog.Logger) (Provider, error) {
		return NewEnv(cfg.Prefix, logger), nil
	})
}
