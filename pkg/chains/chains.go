// Package chains resolves blockchain aliases against the warehouse
// reference tables. Different data vendors name the same chain
// differently; the reference.chain_nicknames table maps every known
// alias to a canonical chain and its per-vendor spellings.
package chains

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dreams-labs/datacore/pkg/core"
	"github.com/dreams-labs/datacore/pkg/objstore"
)

// nicknameQuery loads every known alias joined to its chain record. The
// chain_text_* columns carry per-vendor spellings.
const nicknameQuery = `
	SELECT cn.chain_id, cn.chain_reference, ch.*
	FROM reference.chain_nicknames cn
	LEFT JOIN core.chains ch ON ch.chain_id = cn.chain_id
`

const nicknameCacheName = "chain_nicknames"

// ChainInfo is a resolved chain: its canonical identity plus every
// per-vendor alias found in the reference data.
type ChainInfo struct {
	// ID is the canonical chain identifier.
	ID string
	// Name is the canonical chain name.
	Name string
	// Aliases maps a vendor key (e.g. "dune", "coingecko") to that
	// vendor's spelling of the chain.
	Aliases map[string]string
}

// Resolver translates chain aliases using warehouse reference data,
// optionally through the query cache so repeated lookups skip the
// warehouse round trip.
type Resolver struct {
	runner objstore.QueryRunner
	cache  *objstore.QueryCache
	logger *slog.Logger
}

// NewResolver builds a Resolver. The cache is optional; without it
// every Translate call queries the warehouse.
func NewResolver(runner objstore.QueryRunner, cache *objstore.QueryCache, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{runner: runner, cache: cache, logger: logger}
}

// Translate matches a chain alias case-insensitively against the
// reference data and returns the canonical chain with all known
// aliases. Unmatched aliases fail with the not_found kind.
func (r *Resolver) Translate(ctx context.Context, alias string) (*ChainInfo, error) {
	needle := strings.ToLower(strings.TrimSpace(alias))
	if needle == "" {
		return nil, core.E(core.KindValidation, "chains.translate", "",
			fmt.Errorf("chain alias is required"))
	}

	result, err := r.loadNicknames(ctx)
	if err != nil {
		return nil, err
	}

	for _, row := range result.Rows {
		if strings.ToLower(asString(row["chain_reference"])) != needle {
			continue
		}

		info := &ChainInfo{
			ID:      asString(row["chain_id"]),
			Name:    asString(row["chain"]),
			Aliases: map[string]string{},
		}
		for _, col := range result.Schema.ColumnNames() {
			vendor, ok := strings.CutPrefix(col, "chain_text_")
			if !ok {
				continue
			}
			if v := asString(row[col]); v != "" {
				info.Aliases[vendor] = v
			}
		}

		r.logger.Debug("chain alias resolved",
			"alias", alias,
			"chain_id", info.ID,
			"vendors", len(info.Aliases))
		return info, nil
	}

	return nil, core.E(core.KindNotFound, "chains.translate", alias,
		fmt.Errorf("no known chain matches the alias"))
}

func (r *Resolver) loadNicknames(ctx context.Context) (*core.QueryResult, error) {
	req := core.QueryRequest{SQL: nicknameQuery}
	if r.cache != nil {
		result, _, err := r.cache.Fetch(ctx, r.runner, req, nicknameCacheName, false)
		return result, err
	}
	return r.runner.RunQuery(ctx, req)
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
