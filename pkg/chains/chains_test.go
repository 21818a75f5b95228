package chains

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreams-labs/datacore/pkg/core"
	"github.com/dreams-labs/datacore/pkg/objstore"
)

type nicknameRunner struct {
	calls atomic.Int64
}

func (r *nicknameRunner) RunQuery(_ context.Context, _ core.QueryRequest) (*core.QueryResult, error) {
	r.calls.Add(1)
	return &core.QueryResult{
		Schema: core.Schema{
			{Name: "chain_id", Type: "BIGINT"},
			{Name: "chain_reference", Type: "VARCHAR"},
			{Name: "chain", Type: "VARCHAR"},
			{Name: "chain_text_dune", Type: "VARCHAR"},
			{Name: "chain_text_coingecko", Type: "VARCHAR"},
		},
		Rows: []core.Row{
			{
				"chain_id":             int64(1),
				"chain_reference":      "eth",
				"chain":                "Ethereum",
				"chain_text_dune":      "ethereum",
				"chain_text_coingecko": "ethereum",
			},
			{
				"chain_id":             int64(1),
				"chain_reference":      "Ethereum",
				"chain":                "Ethereum",
				"chain_text_dune":      "ethereum",
				"chain_text_coingecko": "ethereum",
			},
			{
				"chain_id":             int64(2),
				"chain_reference":      "sol",
				"chain":                "Solana",
				"chain_text_dune":      "solana",
				"chain_text_coingecko": nil,
			},
		},
	}, nil
}

func TestTranslate(t *testing.T) {
	resolver := NewResolver(&nicknameRunner{}, nil, nil)

	info, err := resolver.Translate(context.Background(), "ETH")
	require.NoError(t, err)
	assert.Equal(t, "1", info.ID)
	assert.Equal(t, "Ethereum", info.Name)
	assert.Equal(t, map[string]string{
		"dune":      "ethereum",
		"coingecko": "ethereum",
	}, info.Aliases)
}

func TestTranslateCaseInsensitive(t *testing.T) {
	resolver := NewResolver(&nicknameRunner{}, nil, nil)

	// Both sides lowercase before matching.
	info, err := resolver.Translate(context.Background(), "ethereum")
	require.NoError(t, err)
	assert.Equal(t, "Ethereum", info.Name)
}

func TestTranslateSkipsEmptyVendorAliases(t *testing.T) {
	resolver := NewResolver(&nicknameRunner{}, nil, nil)

	info, err := resolver.Translate(context.Background(), "sol")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"dune": "solana"}, info.Aliases)
}

func TestTranslateUnknownAlias(t *testing.T) {
	resolver := NewResolver(&nicknameRunner{}, nil, nil)

	_, err := resolver.Translate(context.Background(), "dogechain")
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
}

func TestTranslateRequiresAlias(t *testing.T) {
	resolver := NewResolver(&nicknameRunner{}, nil, nil)

	_, err := resolver.Translate(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
}

func TestTranslateThroughCache(t *testing.T) {
	runner := &nicknameRunner{}
	cache := objstore.NewQueryCache(objstore.NewMem(), time.Hour, nil)
	resolver := NewResolver(runner, cache, nil)

	_, err := resolver.Translate(context.Background(), "eth")
	require.NoError(t, err)

	// The second lookup hits the cached nickname table.
	info, err := resolver.Translate(context.Background(), "sol")
	require.NoError(t, err)
	assert.Equal(t, "Solana", info.Name)
	assert.Equal(t, int64(1), runner.calls.Load())
}
