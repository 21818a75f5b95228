package objstore

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dreams-labs/datacore/pkg/core"
)

// EncodeCSV writes a query result as CSV with a header row. Values are
// written in their string form; nil becomes the empty field. Column
// types are not preserved through CSV.
func EncodeCSV(w io.Writer, result *core.QueryResult) error {
	cw := csv.NewWriter(w)
	cols := result.Schema.ColumnNames()

	if err := cw.Write(cols); err != nil {
		return core.E(core.KindValidation, "objstore.encode_csv", "", err)
	}

	record := make([]string, len(cols))
	for _, row := range result.Rows {
		for i, col := range cols {
			record[i] = ""
			if v := row[col]; v != nil {
				record[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := cw.Write(record); err != nil {
			return core.E(core.KindValidation, "objstore.encode_csv", "", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// DecodeCSV reads a CSV document with a header row back into a query
// result. All columns come back as TEXT and all values as strings.
func DecodeCSV(r io.Reader) (*core.QueryResult, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, core.E(core.KindValidation, "objstore.decode_csv", "",
			fmt.Errorf("reading header: %w", err))
	}

	schema := make(core.Schema, len(header))
	for i, name := range header {
		schema[i] = core.Column{Name: name, Type: "TEXT"}
	}

	var rows []core.Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.E(core.KindValidation, "objstore.decode_csv", "",
				fmt.Errorf("reading row %d: %w", len(rows)+1, err))
		}

		row := make(core.Row, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}

	return &core.QueryResult{Schema: schema, Rows: rows}, nil
}
