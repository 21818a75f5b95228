package objstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dreams-labs/datacore/pkg/core"
)

// DefaultFreshness is the cache window used when none is configured.
const DefaultFreshness = 24 * time.Hour

// QueryRunner executes a read query. Satisfied by warehouse clients.
type QueryRunner interface {
	RunQuery(ctx context.Context, req core.QueryRequest) (*core.QueryResult, error)
}

// QueryCache serves query results from object storage when a cached
// copy is younger than the freshness window, rerunning the query and
// refreshing the cache otherwise. Results round-trip through CSV, so
// column types degrade to strings on a cache hit.
type QueryCache struct {
	store     Store
	freshness time.Duration
	logger    *slog.Logger
}

// NewQueryCache builds a cache over the given store. A non-positive
// freshness falls back to DefaultFreshness.
func NewQueryCache(store Store, freshness time.Duration, logger *slog.Logger) *QueryCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &QueryCache{store: store, freshness: freshness, logger: logger}
}

// CacheKey returns the object key a named cache entry lives under.
func CacheKey(name string) string {
	return fmt.Sprintf("cache/query_%s.csv", name)
}

// Fetch returns the named cached result when it is fresh, otherwise
// runs the query, overwrites the cache entry, and returns the fresh
// rows. The second return reports whether the cache served the result.
// Setting force skips the freshness check and always reruns.
func (c *QueryCache) Fetch(ctx context.Context, runner QueryRunner, req core.QueryRequest, name string, force bool) (*core.QueryResult, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, core.E(core.KindValidation, "cache.fetch", "",
			fmt.Errorf("cache name is required"))
	}
	key := CacheKey(name)

	if !force {
		result, ok, err := c.lookup(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if ok {
			c.logger.Debug("cache hit", "key", key, "rows", result.RowCount())
			return result, true, nil
		}
	}

	result, err := runner.RunQuery(ctx, req)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := EncodeCSV(&buf, result); err != nil {
		return nil, false, err
	}
	if err := c.store.Put(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "text/csv"); err != nil {
		// The query succeeded; a failed refresh only costs the next
		// caller a rerun.
		c.logger.Warn("cache refresh failed", "key", key, "error", err)
	} else {
		c.logger.Debug("cache refreshed", "key", key, "rows", result.RowCount())
	}

	return result, false, nil
}

// lookup returns the cached result when present, fresh, and readable.
// A missing or stale entry is not an error; store failures other than
// not_found surface to the caller.
func (c *QueryCache) lookup(ctx context.Context, key string) (*core.QueryResult, bool, error) {
	info, err := c.store.Stat(ctx, key)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if time.Since(info.LastModified) >= c.freshness {
		c.logger.Debug("cache entry stale", "key", key, "age", time.Since(info.LastModified))
		return nil, false, nil
	}

	rc, err := c.store.Get(ctx, key)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() { _ = rc.Close() }()

	result, err := DecodeCSV(rc)
	if err != nil {
		// Unreadable entries are treated as misses and overwritten.
		c.logger.Warn("cache entry unreadable", "key", key, "error", err)
		return nil, false, nil
	}
	return result, true, nil
}
