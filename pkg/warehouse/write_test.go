package warehouse

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dreams-labs/datacore/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var writeSchema = core.Schema{
	{Name: "id", Type: "BIGINT"},
	{Name: "name", Type: "VARCHAR"},
}

var writeRows = []core.Row{
	{"id": int64(1), "name": "alice"},
	{"id": int64(2), "name": "bob"},
}

func expectInsert(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	prepared := mock.ExpectPrepare("INSERT INTO")
	prepared.ExpectExec().WithArgs(int64(1), "alice").WillReturnResult(sqlmock.NewResult(0, 1))
	prepared.ExpectExec().WithArgs(int64(2), "bob").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestWriteTable_Append(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("WHERE 1=0").WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	expectInsert(mock)

	summary, err := client.WriteTable(context.Background(), "analytics", "users", writeSchema, writeRows, core.WriteAppend)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.RowsWritten)
	assert.Equal(t, core.WriteAppend, summary.Mode)
	assert.Equal(t, "users", summary.Table)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteTable_AppendMissingTable(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("WHERE 1=0").WillReturnError(errors.New(`table "users" does not exist`))

	_, err := client.WriteTable(context.Background(), "analytics", "users", writeSchema, writeRows, core.WriteAppend)
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
}

func TestWriteTable_AppendColumnMismatch(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("WHERE 1=0").WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	_, err := client.WriteTable(context.Background(), "analytics", "users", writeSchema, writeRows, core.WriteAppend)
	require.Error(t, err)
	assert.True(t, core.IsSchemaMismatch(err))
}

func TestWriteTable_Overwrite(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("WHERE 1=0").WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectExec("DROP TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	expectInsert(mock)

	summary, err := client.WriteTable(context.Background(), "analytics", "users", writeSchema, writeRows, core.WriteOverwrite)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.RowsWritten)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteTable_FailIfExists(t *testing.T) {
	t.Run("table exists", func(t *testing.T) {
		client, mock := newMockClient(t)
		mock.ExpectQuery("WHERE 1=0").WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		_, err := client.WriteTable(context.Background(), "analytics", "users", writeSchema, writeRows, core.WriteFailIfExists)
		require.Error(t, err)
		assert.True(t, core.IsValidation(err))
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("table missing creates and writes", func(t *testing.T) {
		client, mock := newMockClient(t)
		mock.ExpectQuery("WHERE 1=0").WillReturnError(errors.New("no such table: users"))
		mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
		expectInsert(mock)

		summary, err := client.WriteTable(context.Background(), "analytics", "users", writeSchema, writeRows, core.WriteFailIfExists)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.RowsWritten)
	})
}

func TestWriteTable_RowSchemaMismatch(t *testing.T) {
	// Bad rows fail before any statement reaches the warehouse.
	client, _ := newMockClient(t)

	bad := []core.Row{{"id": int64(1), "email": "a@b.c"}}
	_, err := client.WriteTable(context.Background(), "analytics", "users", writeSchema, bad, core.WriteAppend)
	require.Error(t, err)
	assert.True(t, core.IsSchemaMismatch(err))
}

func TestWriteTable_BadMode(t *testing.T) {
	client, _ := newMockClient(t)

	_, err := client.WriteTable(context.Background(), "analytics", "users", writeSchema, writeRows, core.WriteMode("truncate"))
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
}

func TestWriteTable_InsertFailureRollsBack(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery("WHERE 1=0").WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectBegin()
	prepared := mock.ExpectPrepare("INSERT INTO")
	prepared.ExpectExec().WithArgs(int64(1), "alice").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := client.WriteTable(context.Background(), "analytics", "users", writeSchema, writeRows, core.WriteAppend)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
