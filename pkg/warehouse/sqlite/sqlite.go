// Package sqlite provides the SQLite warehouse adapter, mostly useful
// for local fixtures and tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dreams-labs/datacore/pkg/core"
	"github.com/dreams-labs/datacore/pkg/warehouse"

	_ "modernc.org/sqlite" // sqlite driver
)

// Client implements the warehouse.Client interface for SQLite.
type Client struct {
	warehouse.BaseSQLClient
}

// New creates a new SQLite client. A nil logger uses a discard logger.
func New(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		BaseSQLClient: warehouse.BaseSQLClient{
			Logger: logger,
			D:      warehouse.Dialect{Name: "sqlite"},
		},
	}
}

// Connect establishes a connection to SQLite.
// Use an empty path for an in-memory database.
func (c *Client) Connect(ctx context.Context, cfg warehouse.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	c.DB = db
	c.Cfg = cfg
	return nil
}

// GetTableMetadata overrides the information_schema implementation;
// SQLite exposes schema through PRAGMA table_info instead.
func (c *Client) GetTableMetadata(ctx context.Context, table string) (*core.TableMetadata, error) {
	if c.DB == nil {
		return nil, fmt.Errorf("warehouse connection not established")
	}

	_, tableName := c.D.ParseQualifiedName(table)

	rows, err := c.DB.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", c.D.QuoteIdent(tableName)))
	if err != nil {
		return nil, fmt.Errorf("failed to query table info: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan table info: %w", err)
		}
		columns = append(columns, core.Column{Name: name, Type: colType})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating table info: %w", err)
	}

	if len(columns) == 0 {
		return nil, core.E(core.KindNotFound, "warehouse.table_metadata", table,
			fmt.Errorf("table not found"))
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", c.D.QuoteIdent(tableName)) //nolint:gosec // identifier is quoted
	var rowCount int64
	if err := c.DB.QueryRowContext(ctx, countQuery).Scan(&rowCount); err != nil {
		rowCount = 0
	}

	return &core.TableMetadata{
		Name:     tableName,
		Columns:  columns,
		RowCount: rowCount,
	}, nil
}

// Ensure Client implements the warehouse.Client interface.
var _ warehouse.Client = (*Client)(nil)

func init() {
	warehouse.Register("sqlite", func(logger *slog.Logger) warehouse.Client { return New(logger) })
}
