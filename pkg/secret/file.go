package secret

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dreams-labs/datacore/pkg/core"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// FileProvider resolves secrets from a YAML file mapping names to
// values. Nested mappings come back as structured blobs suitable for
// Secret.Decode.
type FileProvider struct {
	path   string
	logger *slog.Logger
}

// NewFile creates a file-backed provider. The file is read on every
// Get so rotations are picked up without restarting.
func NewFile(path string, logger *slog.Logger) (*FileProvider, error) {
	if path == "" {
		return nil, fmt.Errorf("file secret backend requires a path")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileProvider{path: path, logger: logger}, nil
}

// Get implements Provider.
func (p *FileProvider) Get(ctx context.Context, name string) (core.Secret, error) {
	if name == "" {
		return core.Secret{}, core.E(core.KindValidation, "secret.get", "", fmt.Errorf("secret name is empty"))
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(p.path), kyaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			return core.Secret{}, core.E(core.KindNotFound, "secret.get", name,
				fmt.Errorf("secrets file %s does not exist", p.path))
		}
		if os.IsPermission(err) {
			return core.Secret{}, core.E(core.KindAccessDenied, "secret.get", name,
				fmt.Errorf("secrets file %s: %w", p.path, err))
		}
		return core.Secret{}, core.E(core.KindTransient, "secret.get", name, err)
	}

	if !k.Exists(name) {
		return core.Secret{}, core.E(core.KindNotFound, "secret.get", name,
			fmt.Errorf("secret not present in %s", p.path))
	}

	value, err := stringify(k.Get(name))
	if err != nil {
		return core.Secret{}, core.E(core.KindValidation, "secret.get", name, err)
	}

	p.logger.Debug("secret resolved", "name", name, "source", "file")
	return core.Secret{
		Name:    name,
		Value:   value,
		Source:  "file",
		Version: "latest",
	}, nil
}

// stringify renders scalar values directly and re-serializes nested
// mappings to YAML so structured credentials survive as blobs.
func stringify(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case nil:
		return "", fmt.Errorf("secret value is null")
	default:
		out, err := yaml.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("cannot serialize secret value: %w", err)
		}
		return string(out), nil
	}
}

func init() {
	Register("file", func(cfg Config, logger *slog.Logger) (Provider, error) {
		return NewFile(cfg.Path, logger)
	})
}
