package linked

import (
	"context"
	"database/sql"
	"testing"

	"github.com/quilldb/quill/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughProvider struct{}

func (passthroughProvider) DecodeString(raw string) (string, error) { return raw, nil }

// seedSQLite opens a throwaway modernc.org/sqlite database and creates a
// table so a CREATE LINKED TABLE pointed at it has something real to probe.
// The returned *sql.DB must be kept open (via t.Cleanup) for the rest of
// the test: a `cache=shared` memory database is torn down as soon as its
// last connection closes, and Registry.Open below opens a second,
// independent connection to the same URI.
func seedSQLite(t *testing.T, dsn string) {
	t.Helper()
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec("CREATE TABLE widgets (id INTEGER, name TEXT)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO widgets (id, name) VALUES (1, 'sprocket')")
	require.NoError(t, err)
}

func TestOpenProbesRemoteColumnsAndRegisters(t *testing.T) {
	dsn := "file:linked_open_test?mode=memory&cache=shared"
	seedSQLite(t, dsn)

	reg := NewRegistry()
	stmt := &ast.CreateLinkedTable{
		Name:        &ast.TableName{Name: "remote_widgets"},
		Driver:      "sqlite",
		DSN:         dsn,
		RemoteTable: "widgets",
	}
	table, err := reg.Open(context.Background(), stmt)
	require.NoError(t, err)
	defer table.Close()

	require.Len(t, table.Columns, 2)
	assert.Equal(t, "id", table.Columns[0].Name)
	assert.Equal(t, "name", table.Columns[1].Name)

	got, ok := reg.Get("remote_widgets")
	require.True(t, ok)
	assert.Same(t, table, got)
}

func TestQueryPushesDownAndAdaptsRows(t *testing.T) {
	dsn := "file:linked_query_test?mode=memory&cache=shared"
	seedSQLite(t, dsn)

	reg := NewRegistry()
	stmt := &ast.CreateLinkedTable{
		Name:        &ast.TableName{Name: "remote_widgets"},
		Driver:      "sqlite",
		DSN:         dsn,
		RemoteTable: "widgets",
	}
	table, err := reg.Open(context.Background(), stmt)
	require.NoError(t, err)
	defer table.Close()

	rs, err := table.Query(context.Background(), "SELECT id, name FROM widgets WHERE id = ?",
		[]ast.Value{{Kind: ast.VInteger, Int: 1}}, passthroughProvider{})
	require.NoError(t, err)
	defer rs.Close()

	row, ok, err := rs.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ast.VInteger, row[0].Kind)
	assert.Equal(t, int64(1), row[0].Int)
	assert.Equal(t, "sprocket", row[1].Str)

	_, ok, err = rs.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExecPushesDownAndReportsAffectedRows(t *testing.T) {
	dsn := "file:linked_exec_test?mode=memory&cache=shared"
	seedSQLite(t, dsn)

	reg := NewRegistry()
	stmt := &ast.CreateLinkedTable{
		Name:        &ast.TableName{Name: "remote_widgets"},
		Driver:      "sqlite",
		DSN:         dsn,
		RemoteTable: "widgets",
	}
	table, err := reg.Open(context.Background(), stmt)
	require.NoError(t, err)
	defer table.Close()

	n, err := table.Exec(context.Background(), "UPDATE widgets SET name = ? WHERE id = ?",
		[]ast.Value{{Kind: ast.VString, Str: "cog"}, {Kind: ast.VInteger, Int: 1}}, passthroughProvider{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOpenUnsupportedDriverRejected(t *testing.T) {
	reg := NewRegistry()
	stmt := &ast.CreateLinkedTable{
		Name:        &ast.TableName{Name: "x"},
		Driver:      "oracle",
		DSN:         "irrelevant",
		RemoteTable: "t",
	}
	_, err := reg.Open(context.Background(), stmt)
	require.Error(t, err)
}

func TestDropUnknownTableErrors(t *testing.T) {
	reg := NewRegistry()
	err := reg.Drop("never_opened")
	require.Error(t, err)
}

func TestValidatePostgresSQLRejectsGarbage(t *testing.T) {
	assert.Error(t, ValidatePostgresSQL("SELECT FROM WHERE ;;; garbage"))
	assert.NoError(t, ValidatePostgresSQL("SELECT 1"))
}
