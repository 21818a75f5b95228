package warehouse

import (
	"testing"

	"github.com/dreams-labs/datacore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandNamedParams(t *testing.T) {
	question := Dialect{Name: "duckdb"}
	dollar := Dialect{Name: "postgres", PositionalDollar: true}

	tests := []struct {
		name      string
		sql       string
		params    map[string]any
		dialect   Dialect
		wantSQL   string
		wantArgs  []any
		expectErr bool
	}{
		{
			name:     "no parameters",
			sql:      "SELECT 1",
			dialect:  question,
			wantSQL:  "SELECT 1",
			wantArgs: nil,
		},
		{
			name:     "question placeholders",
			sql:      "SELECT * FROM t WHERE id = @id AND name = @name",
			params:   map[string]any{"id": 7, "name": "alice"},
			dialect:  question,
			wantSQL:  "SELECT * FROM t WHERE id = ? AND name = ?",
			wantArgs: []any{7, "alice"},
		},
		{
			name:     "dollar placeholders",
			sql:      "SELECT * FROM t WHERE id = @id AND name = @name",
			params:   map[string]any{"id": 7, "name": "alice"},
			dialect:  dollar,
			wantSQL:  "SELECT * FROM t WHERE id = $1 AND name = $2",
			wantArgs: []any{7, "alice"},
		},
		{
			name:     "repeated parameter binds twice",
			sql:      "SELECT * FROM t WHERE a = @x OR b = @x",
			params:   map[string]any{"x": 1},
			dialect:  question,
			wantSQL:  "SELECT * FROM t WHERE a = ? OR b = ?",
			wantArgs: []any{1, 1},
		},
		{
			name:     "marker inside string literal untouched",
			sql:      "SELECT '@id', \"@weird col\" FROM t WHERE id = @id",
			params:   map[string]any{"id": 3},
			dialect:  question,
			wantSQL:  "SELECT '@id', \"@weird col\" FROM t WHERE id = ?",
			wantArgs: []any{3},
		},
		{
			name:     "escaped quote in literal",
			sql:      "SELECT 'it''s @fine' WHERE id = @id",
			params:   map[string]any{"id": 3},
			dialect:  question,
			wantSQL:  "SELECT 'it''s @fine' WHERE id = ?",
			wantArgs: []any{3},
		},
		{
			name:     "bare at sign passes through",
			sql:      "SELECT 'a' @> 'b'",
			dialect:  question,
			wantSQL:  "SELECT 'a' @> 'b'",
			wantArgs: nil,
		},
		{
			name:      "missing parameter",
			sql:       "SELECT * FROM t WHERE id = @id",
			params:    map[string]any{},
			dialect:   question,
			expectErr: true,
		},
		{
			name:      "unused parameter",
			sql:       "SELECT 1",
			params:    map[string]any{"id": 1},
			dialect:   question,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotArgs, err := expandNamedParams(tt.sql, tt.params, tt.dialect)
			if tt.expectErr {
				require.Error(t, err)
				assert.True(t, core.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, gotSQL)
			assert.Equal(t, tt.wantArgs, gotArgs)
		})
	}
}
