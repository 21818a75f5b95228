package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dreams-labs/datacore/pkg/core"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Render writes a query result to w in the named format: table, json,
// csv, or md.
func Render(w io.Writer, result *core.QueryResult, format string) error {
	switch format {
	case "json":
		return RenderJSON(w, result)
	case "csv":
		return RenderCSV(w, result)
	case "md", "markdown":
		return RenderMarkdown(w, result)
	case "", "table":
		return RenderTable(w, result)
	}
	return core.E(core.KindValidation, "format.render", format,
		fmt.Errorf("unknown output format (expected table, json, csv, or md)"))
}

// RenderTable writes the result as a bordered text table.
func RenderTable(w io.Writer, result *core.QueryResult) error {
	if result.RowCount() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	cols := result.Schema.ColumnNames()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range result.Rows {
		out := make(table.Row, len(cols))
		for i, col := range cols {
			out[i] = formatValue(row[col])
		}
		t.AppendRow(out)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", result.RowCount())
	return nil
}

// RenderJSON writes the result rows as indented JSON.
func RenderJSON(w io.Writer, result *core.QueryResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Rows)
}

// RenderCSV writes the result as comma-separated values with a header.
func RenderCSV(w io.Writer, result *core.QueryResult) error {
	cols := result.Schema.ColumnNames()
	_, _ = fmt.Fprintln(w, strings.Join(cols, ","))

	for _, row := range result.Rows {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = escapeCSV(formatValue(row[col]))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

// RenderMarkdown writes the result as a markdown table.
func RenderMarkdown(w io.Writer, result *core.QueryResult) error {
	if result.RowCount() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	cols := result.Schema.ColumnNames()
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))

	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range result.Rows {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = formatValue(row[col])
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
