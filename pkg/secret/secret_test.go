package secret

import (
	"context"
	"testing"

	"github.com/dreams-labs/datacore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("present secret resolves", func(t *testing.T) {
		store := NewStatic(map[string]string{"db_password": "x1"}, nil)

		s, err := store.Get(ctx, "db_password")
		require.NoError(t, err)
		assert.Equal(t, "x1", s.Value)
		assert.Equal(t, "static", s.Source)
	})

	t.Run("empty store returns not_found", func(t *testing.T) {
		store := NewStatic(nil, nil)

		_, err := store.Get(ctx, "db_password")
		require.Error(t, err)
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("empty name is a validation failure", func(t *testing.T) {
		store := NewStatic(map[string]string{"a": "b"}, nil)

		_, err := store.Get(ctx, "")
		require.Error(t, err)
		assert.True(t, core.IsValidation(err))
	})
}

func TestEnvProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves from prefixed variable", func(t *testing.T) {
		t.Setenv("DATACORE_SECRET_API_KEY", "k-123")

		p := NewEnv("", nil)
		s, err := p.Get(ctx, "api_key")
		require.NoError(t, err)
		assert.Equal(t, "k-123", s.Value)
		assert.Equal(t, "env", s.Source)
	})

	t.Run("custom prefix", func(t *testing.T) {
		t.Setenv("MYAPP_DUNE_KEY", "k-456")

		p := NewEnv("MYAPP_", nil)
		s, err := p.Get(ctx, "dune_key")
		require.NoError(t, err)
		assert.Equal(t, "k-456", s.Value)
	})

	t.Run("unset variable returns not_found", func(t *testing.T) {
		p := NewEnv("", nil)
		_, err := p.Get(ctx, "definitely_not_set_anywhere")
		require.Error(t, err)
		assert.True(t, core.IsNotFound(err))
	})
}

func TestNewSelectsBackend(t *testing.T) {
	p, err := New(Config{Backend: "static"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &StaticProvider{}, p)

	p, err = New(Config{Backend: "env", Prefix: "X_"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &EnvProvider{}, p)

	// Default backend is env.
	p, err = New(Config{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &EnvProvider{}, p)

	_, err = New(Config{Backend: "vault9000"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown secret backend")
}

func TestListBackends(t *testing.T) {
	backends := ListBackends()
	assert.Contains(t, backends, "static")
	assert.Contains(t, backends, "env")
	assert.Contains(t, backends, "file")
	assert.Contains(t, backends, "remote")
}
