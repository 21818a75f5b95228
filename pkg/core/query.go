package core

import (
	"fmt"
	"sort"
	"time"
)

// QueryRequest describes a parameterized read or write statement against
// a warehouse. Parameters are always bound, never interpolated into the
// SQL text. The request is immutable once constructed.
type QueryRequest struct {
	// SQL is the statement text. Parameters are referenced as @name.
	SQL string

	// Params maps parameter names (without the @ prefix) to scalar
	// values. Missing or unused parameters fail validation at bind time.
	Params map[string]any

	// Dataset and Table optionally identify the target relation, for
	// operations and errors that report one.
	Dataset string
	Table   string
}

// Column describes one column of a result schema.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Schema is the ordered column list of a QueryResult.
type Schema []Column

// ColumnNames returns the column names in declared order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Row is a single result row, keyed by column name.
type Row map[string]any

// QueryResult is the tabular output of a query: a declared schema and
// ordered rows. Every row carries exactly the schema's columns. The
// caller owns the result after return.
type QueryResult struct {
	Schema Schema `json:"schema"`
	Rows   []Row  `json:"rows"`
}

// RowCount returns the number of rows.
func (r *QueryResult) RowCount() int {
	return len(r.Rows)
}

// Validate checks the schema/row consistency invariant: each row's key
// set must equal the schema's column set.
func (r *QueryResult) Validate() error {
	cols := r.Schema.ColumnNames()
	for i, row := range r.Rows {
		if len(row) != len(cols) {
			return E(KindValidation, "result.validate", fmt.Sprintf("row %d", i),
				fmt.Errorf("row has %d values, schema declares %d columns", len(row), len(cols)))
		}
		for _, c := range cols {
			if _, ok := row[c]; !ok {
				return E(KindValidation, "result.validate", fmt.Sprintf("row %d", i),
					fmt.Errorf("missing column %q", c))
			}
		}
	}
	return nil
}

// RowsEquivalent reports whether two results hold the same rows
// regardless of order, comparing values by their string form. Used for
// cache round-trip checks where types degrade through CSV.
func RowsEquivalent(a, b *QueryResult) bool {
	if len(a.Rows) != len(b.Rows) {
		return false
	}
	return canonicalRows(a) == canonicalRows(b)
}

func canonicalRows(r *QueryResult) string {
	cols := r.Schema.ColumnNames()
	sorted := append([]string(nil), cols...)
	sort.Strings(sorted)

	lines := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		line := ""
		for _, c := range sorted {
			line += fmt.Sprintf("%s=%v;", c, row[c])
		}
		lines = append(lines, line)
	}
	sort.Strings(lines)

	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}

// WriteMode controls how WriteTable treats an existing target table.
type WriteMode string

// Write modes.
const (
	// WriteAppend adds rows to an existing table.
	WriteAppend WriteMode = "append"
	// WriteOverwrite replaces the table with the written rows.
	WriteOverwrite WriteMode = "overwrite"
	// WriteFailIfExists refuses to write when the table already exists.
	WriteFailIfExists WriteMode = "fail_if_exists"
)

// ParseWriteMode validates a write mode string.
func ParseWriteMode(s string) (WriteMode, error) {
	switch WriteMode(s) {
	case WriteAppend, WriteOverwrite, WriteFailIfExists:
		return WriteMode(s), nil
	}
	return "", E(KindValidation, "writemode.parse", s,
		fmt.Errorf("unknown write mode %q (expected append, overwrite, or fail_if_exists)", s))
}

// WriteSummary reports the outcome of a table write.
type WriteSummary struct {
	Dataset     string        `json:"dataset,omitempty"`
	Table       string        `json:"table"`
	Mode        WriteMode     `json:"mode"`
	RowsWritten int           `json:"rows_written"`
	Duration    time.Duration `json:"duration"`
}

// TableMetadata describes an existing warehouse table.
type TableMetadata struct {
	Schema   string
	Name     string
	Columns  []Column
	RowCount int64
}
