// Package warehouse provides the columnar warehouse client contract and
// a shared database/sql implementation.
//
// Concrete adapters live in pkg/warehouse subdirectories (duckdb,
// postgres, sqlite) and register themselves with the registry in their
// init functions. Reads have no side effects; writes mutate external
// warehouse state. The client never retries internally: transient
// failures surface with the transient kind so the caller controls the
// retry policy and sees every attempt's cost.
package warehouse

import (
	"context"

	"github.com/dreams-labs/datacore/pkg/core"
)

// Config holds connection settings for a warehouse adapter.
type Config struct {
	// Type selects the registered adapter (duckdb, postgres, sqlite).
	Type string `koanf:"type"`

	// Path is the database file path for file-based adapters. Empty
	// means in-memory where the adapter supports it.
	Path string `koanf:"path"`

	// DSN is the full connection string for server-based adapters.
	DSN string `koanf:"dsn"`

	// Database and Schema identify the default namespace.
	Database string `koanf:"database"`
	Schema   string `koanf:"schema"`
}

// Client is the warehouse contract. All implementations are safe for
// concurrent independent use; connection pooling is an internal detail
// with no observable ordering guarantees across calls.
type Client interface {
	// Connect establishes the connection described by cfg.
	Connect(ctx context.Context, cfg Config) error

	// Close releases the connection and all resources.
	Close() error

	// RunQuery executes a parameterized read query and returns its
	// tabular result. Parameters are always bound, never interpolated.
	RunQuery(ctx context.Context, req core.QueryRequest) (*core.QueryResult, error)

	// Exec executes a parameterized statement that returns no rows.
	Exec(ctx context.Context, sqlText string, params map[string]any) error

	// WriteTable writes rows to dataset.table under the given write
	// mode and reports a summary.
	WriteTable(ctx context.Context, dataset, table string, schema core.Schema, rows []core.Row, mode core.WriteMode) (*core.WriteSummary, error)

	// GetTableMetadata retrieves column and row-count metadata for a
	// table. Fails with the not_found kind when the table is missing.
	GetTableMetadata(ctx context.Context, table string) (*core.TableMetadata, error)

	// Dialect returns the SQL dialect for this adapter.
	Dialect() Dialect
}
