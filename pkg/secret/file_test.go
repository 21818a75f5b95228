package secret

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dreams-labs/datacore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecretsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("scalar secret", func(t *testing.T) {
		path := writeSecretsFile(t, "db_password: x1\napi_key: k-789\n")

		p, err := NewFile(path, nil)
		require.NoError(t, err)

		s, err := p.Get(ctx, "db_password")
		require.NoError(t, err)
		assert.Equal(t, "x1", s.Value)
		assert.Equal(t, "file", s.Source)
	})

	t.Run("structured credential blob", func(t *testing.T) {
		path := writeSecretsFile(t, `
svc_account:
  client_email: svc@example.com
  private_key: pk-data
`)
		p, err := NewFile(path, nil)
		require.NoError(t, err)

		s, err := p.Get(ctx, "svc_account")
		require.NoError(t, err)

		var blob struct {
			ClientEmail string `yaml:"client_email"`
			PrivateKey  string `yaml:"private_key"`
		}
		require.NoError(t, s.Decode(&blob))
		assert.Equal(t, "svc@example.com", blob.ClientEmail)
		assert.Equal(t, "pk-data", blob.PrivateKey)
	})

	t.Run("absent secret", func(t *testing.T) {
		path := writeSecretsFile(t, "a: b\n")
		p, err := NewFile(path, nil)
		require.NoError(t, err)

		_, err = p.Get(ctx, "missing")
		require.Error(t, err)
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("missing file", func(t *testing.T) {
		p, err := NewFile(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		require.NoError(t, err)

		_, err = p.Get(ctx, "anything")
		require.Error(t, err)
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("empty path rejected", func(t *testing.T) {
		_, err := NewFile("", nil)
		require.Error(t, err)
	})
}
