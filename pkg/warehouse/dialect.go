package warehouse

import (
	"fmt"
	"strings"
)

// Dialect captures the per-adapter SQL differences the shared client
// needs: placeholder style, identifier quoting, and default schema.
type Dialect struct {
	// Name identifies the dialect (duckdb, postgres, sqlite).
	Name string

	// DefaultSchema is used when a table reference is unqualified.
	DefaultSchema string

	// PositionalDollar selects $N placeholders instead of ?.
	PositionalDollar bool
}

// Placeholder formats the bind placeholder for 1-based position i.
func (d Dialect) Placeholder(i int) string {
	if d.PositionalDollar {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// QuoteIdent quotes an identifier with double quotes, doubling any
// embedded quote characters.
func (d Dialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QualifyTable joins schema and table into a quoted reference, using
// the default schema when the reference is unqualified.
func (d Dialect) QualifyTable(schema, table string) string {
	if schema == "" {
		schema = d.DefaultSchema
	}
	if schema == "" {
		return d.QuoteIdent(table)
	}
	return d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
}

// ParseQualifiedName splits a table reference into schema and name,
// falling back to the dialect's default schema.
func (d Dialect) ParseQualifiedName(table string) (schema, name string) {
	if parts := strings.Split(table, "."); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return d.DefaultSchema, table
}
