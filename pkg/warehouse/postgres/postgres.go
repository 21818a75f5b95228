// Package postgres provides the PostgreSQL warehouse adapter.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dreams-labs/datacore/pkg/warehouse"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

// Client implements the warehouse.Client interface for PostgreSQL.
type Client struct {
	warehouse.BaseSQLClient
}

// New creates a new PostgreSQL client. A nil logger uses a discard logger.
func New(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		BaseSQLClient: warehouse.BaseSQLClient{
			Logger: logger,
			D:      warehouse.Dialect{Name: "postgres", DefaultSchema: "public", PositionalDollar: true},
		},
	}
}

// Connect establishes a connection to PostgreSQL using cfg.DSN.
func (c *Client) Connect(ctx context.Context, cfg warehouse.Config) error {
	if cfg.DSN == "" {
		return fmt.Errorf("postgres requires a dsn")
	}

	c.Logger.Debug("connecting to postgres", slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
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
	warehouse.Register("postgres", func(logger *slog.Logger) warehouse.Client { return New(logger) })
}
