package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/dreams-labs/datacore/pkg/core"
)

// BaseSQLClient provides the shared database/sql implementation of the
// Client contract. Embed it in concrete adapters to get RunQuery, Exec,
// WriteTable, and metadata behavior; adapters supply Connect and may
// override metadata where the engine has no information_schema.
type BaseSQLClient struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
	D      Dialect
}

// Dialect returns the adapter's SQL dialect.
func (b *BaseSQLClient) Dialect() Dialect {
	return b.D
}

// Close closes the database connection.
func (b *BaseSQLClient) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing warehouse connection", "type", b.Cfg.Type)
		}
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the connection is established.
func (b *BaseSQLClient) IsConnected() bool {
	return b.DB != nil
}

// Exec executes a parameterized statement that returns no rows.
func (b *BaseSQLClient) Exec(ctx context.Context, sqlText string, params map[string]any) error {
	if b.DB == nil {
		return fmt.Errorf("warehouse connection not established")
	}

	bound, args, err := expandNamedParams(sqlText, params, b.D)
	if err != nil {
		return err
	}

	if _, err := b.DB.ExecContext(ctx, bound, args...); err != nil {
		return classify("warehouse.exec", "", err)
	}
	return nil
}

// RunQuery executes a parameterized read query and collects the result.
func (b *BaseSQLClient) RunQuery(ctx context.Context, req core.QueryRequest) (*core.QueryResult, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("warehouse connection not established")
	}

	bound, args, err := expandNamedParams(req.SQL, req.Params, b.D)
	if err != nil {
		return nil, err
	}

	rows, err := b.DB.QueryContext(ctx, bound, args...)
	if err != nil {
		return nil, classify("warehouse.run_query", req.Table, err)
	}
	defer func() { _ = rows.Close() }()

	result, err := collectRows(rows)
	if err != nil {
		return nil, classify("warehouse.run_query", req.Table, err)
	}

	if b.Logger != nil {
		b.Logger.Debug("query completed", "rows", result.RowCount())
	}
	return result, nil
}

// collectRows drains a sql.Rows into a QueryResult. []byte values are
// converted to strings for readability.
func collectRows(rows *sql.Rows) (*core.QueryResult, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	schema := make(core.Schema, len(cols))
	for i, name := range cols {
		schema[i] = core.Column{Name: name, Type: "TEXT"}
	}
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			if i < len(schema) && ct.DatabaseTypeName() != "" {
				schema[i].Type = ct.DatabaseTypeName()
			}
		}
	}

	var out []core.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(core.Row, len(cols))
		for i, col := range cols {
			val := values[i]
			if bts, ok := val.([]byte); ok {
				val = string(bts)
			}
			row[col] = val
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &core.QueryResult{Schema: schema, Rows: out}, nil
}

// GetTableMetadata retrieves column metadata via information_schema.
// Adapters for engines without information_schema override this.
func (b *BaseSQLClient) GetTableMetadata(ctx context.Context, table string) (*core.TableMetadata, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("warehouse connection not established")
	}

	schema, tableName := b.D.ParseQualifiedName(table)

	query := fmt.Sprintf(`
		SELECT
			column_name,
			data_type,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = %s AND table_name = %s
		ORDER BY ordinal_position
	`, b.D.Placeholder(1), b.D.Placeholder(2))

	rows, err := b.DB.QueryContext(ctx, query, schema, tableName)
	if err != nil {
		return nil, classify("warehouse.table_metadata", table, err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var position int
		if err := rows.Scan(&col.Name, &col.Type, &position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, core.E(core.KindNotFound, "warehouse.table_metadata", table,
			fmt.Errorf("table not found"))
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", b.D.QualifyTable(schema, tableName)) //nolint:gosec // identifiers are quoted
	var rowCount int64
	if err := b.DB.QueryRowContext(ctx, countQuery).Scan(&rowCount); err != nil {
		rowCount = 0
	}

	return &core.TableMetadata{
		Schema:   schema,
		Name:     tableName,
		Columns:  columns,
		RowCount: rowCount,
	}, nil
}

// classify maps driver and transport failures onto the error taxonomy.
// Anything unrecognized stays a plain wrapped error.
func classify(op, ref string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return core.E(core.KindTimeout, op, ref, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return core.E(core.KindTransient, op, ref, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests"):
		return core.E(core.KindQuotaExceeded, op, ref, err)
	case strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "i/o timeout"):
		return core.E(core.KindTransient, op, ref, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
