package warehouse

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dreams-labs/datacore/pkg/core"
)

// WriteTable writes rows to dataset.table under the given write mode.
// Rows must carry exactly the declared schema's columns; disagreement
// is a schema_mismatch failure before anything touches the warehouse.
// The insert runs in a single transaction.
func (b *BaseSQLClient) WriteTable(ctx context.Context, dataset, table string, schema core.Schema, rows []core.Row, mode core.WriteMode) (*core.WriteSummary, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("warehouse connection not established")
	}

	op := "warehouse.write_table"
	ref := tableRef(dataset, table)

	if _, err := core.ParseWriteMode(string(mode)); err != nil {
		return nil, err
	}
	if len(schema) == 0 {
		return nil, core.E(core.KindValidation, op, ref, fmt.Errorf("schema must declare at least one column"))
	}
	if err := validateRows(schema, rows, op, ref); err != nil {
		return nil, err
	}

	start := time.Now()
	qualified := b.D.QualifyTable(dataset, table)

	existingCols, exists, err := b.probeTable(ctx, qualified)
	if err != nil {
		return nil, err
	}

	switch mode {
	case core.WriteFailIfExists:
		if exists {
			return nil, core.E(core.KindValidation, op, ref, fmt.Errorf("table already exists"))
		}
		if err := b.createTable(ctx, qualified, schema); err != nil {
			return nil, err
		}

	case core.WriteAppend:
		if !exists {
			return nil, core.E(core.KindNotFound, op, ref, fmt.Errorf("cannot append to missing table"))
		}
		if err := matchColumns(schema, existingCols, op, ref); err != nil {
			return nil, err
		}

	case core.WriteOverwrite:
		if exists {
			if _, err := b.DB.ExecContext(ctx, "DROP TABLE "+qualified); err != nil {
				return nil, classify(op, ref, err)
			}
		}
		if err := b.createTable(ctx, qualified, schema); err != nil {
			return nil, err
		}
	}

	if err := b.insertRows(ctx, qualified, schema, rows); err != nil {
		return nil, classify(op, ref, err)
	}

	if b.Logger != nil {
		b.Logger.Debug("table write completed", "table", ref, "mode", string(mode), "rows", len(rows))
	}

	return &core.WriteSummary{
		Dataset:     dataset,
		Table:       table,
		Mode:        mode,
		RowsWritten: len(rows),
		Duration:    time.Since(start),
	}, nil
}

// probeTable checks table existence and reads its column names with a
// zero-row select. Portable across engines with and without an
// information_schema.
func (b *BaseSQLClient) probeTable(ctx context.Context, qualified string) (cols []string, exists bool, err error) {
	rows, qerr := b.DB.QueryContext(ctx, "SELECT * FROM "+qualified+" WHERE 1=0")
	if qerr != nil {
		if isMissingTableErr(qerr) {
			return nil, false, nil
		}
		return nil, false, classify("warehouse.write_table", qualified, qerr)
	}
	defer func() { _ = rows.Close() }()

	cols, err = rows.Columns()
	if err != nil {
		return nil, false, err
	}
	return cols, true, rows.Err()
}

func isMissingTableErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "not found")
}

func (b *BaseSQLClient) createTable(ctx context.Context, qualified string, schema core.Schema) error {
	defs := make([]string, len(schema))
	for i, col := range schema {
		defs[i] = b.D.QuoteIdent(col.Name) + " " + col.Type
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", qualified, strings.Join(defs, ", "))
	if _, err := b.DB.ExecContext(ctx, stmt); err != nil {
		return classify("warehouse.write_table", qualified, err)
	}
	return nil
}

func (b *BaseSQLClient) insertRows(ctx context.Context, qualified string, schema core.Schema, rows []core.Row) error {
	if len(rows) == 0 {
		return nil
	}

	cols := make([]string, len(schema))
	placeholders := make([]string, len(schema))
	for i, col := range schema {
		cols[i] = b.D.QuoteIdent(col.Name)
		placeholders[i] = b.D.Placeholder(i + 1)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qualified, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = prepared.Close() }()

	for _, row := range rows {
		args := make([]any, len(schema))
		for i, col := range schema {
			args[i] = row[col.Name]
		}
		if _, err := prepared.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// validateRows enforces the row/schema invariant before writing.
func validateRows(schema core.Schema, rows []core.Row, op, ref string) error {
	want := schema.ColumnNames()
	for i, row := range rows {
		if len(row) != len(want) {
			return core.E(core.KindSchemaMismatch, op, ref,
				fmt.Errorf("row %d has %d values, schema declares %d columns", i, len(row), len(want)))
		}
		for _, col := range want {
			if _, ok := row[col]; !ok {
				return core.E(core.KindSchemaMismatch, op, ref,
					fmt.Errorf("row %d is missing column %q", i, col))
			}
		}
	}
	return nil
}

// matchColumns checks the declared schema against the target table's
// columns, order-insensitively and case-insensitively.
func matchColumns(schema core.Schema, existing []string, op, ref string) error {
	want := make([]string, len(schema))
	for i, col := range schema {
		want[i] = strings.ToLower(col.Name)
	}
	got := make([]string, len(existing))
	for i, col := range existing {
		got[i] = strings.ToLower(col)
	}
	sort.Strings(want)
	sort.Strings(got)

	if strings.Join(want, ",") != strings.Join(got, ",") {
		return core.E(core.KindSchemaMismatch, op, ref,
			fmt.Errorf("declared columns [%s] do not match table columns [%s]",
				strings.Join(want, ", "), strings.Join(got, ", ")))
	}
	return nil
}

func tableRef(dataset, table string) string {
	if dataset == "" {
		return table
	}
	return dataset + "." + table
}
