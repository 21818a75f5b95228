// Package duckdb provides the DuckDB warehouse adapter, the default
// columnar target for local analytical work.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dreams-labs/datacore/pkg/warehouse"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Client implements the warehouse.Client interface for DuckDB.
type Client struct {
	warehouse.BaseSQLClient
}

// New creates a new DuckDB client. A nil logger uses a discard logger.
func New(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		BaseSQLClient: warehouse.BaseSQLClient{
			Logger: logger,
			D:      warehouse.Dialect{Name: "duckdb", DefaultSchema: "main"},
		},
	}
}

// Connect establishes a connection to DuckDB.
// Use an empty path for an in-memory database.
func (c *Client) Connect(ctx context.Context, cfg warehouse.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	c.DB = db
	c.Cfg = cfg
	if cfg.Schema != "" {
		c.D.DefaultSchema = cfg.Schema
	}
	return nil
}

// Ensure Client implements the warehouse.Client interface.
var _ warehouse.Client = (*Client)(nil)

func init() {
	warehouse.Register("duckdb", func(logger *slog.Logger) warehouse.Client { return New(logger) })
}
