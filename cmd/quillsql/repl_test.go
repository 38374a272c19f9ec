package main

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quilldb/quill/internal/lexer"

	_ "modernc.org/sqlite"
)

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

func TestRunTextCreatesLinkedTableAndPushesSelectDown(t *testing.T) {
	dsn := "file:quillsql_repl_test?mode=memory&cache=shared"
	seedSQLite(t, dsn)

	sess := newReplSession(lexer.DefaultConfig())
	stmts := `CREATE LINKED TABLE remote_widgets ('sqlite', '` + dsn + `', 'widgets');
SELECT id, name FROM remote_widgets;`

	var out bytes.Buffer
	err := runText(context.Background(), &out, sess, stmts, false)
	require.NoError(t, err)

	_, ok := sess.registry.Get("REMOTE_WIDGETS")
	assert.True(t, ok)
	assert.Contains(t, out.String(), "sprocket")
}

func TestRunTextRejectsStatementWithoutStorageBackend(t *testing.T) {
	sess := newReplSession(lexer.DefaultConfig())
	err := runText(context.Background(), &bytes.Buffer{}, sess, "SELECT 1;", false)
	assert.Error(t, err)
}

func TestSubstitutePasswordReplacesPlaceholder(t *testing.T) {
	got := substitutePassword("user:{password}@host/db", "s3cr3t")
	assert.Equal(t, "user:s3cr3t@host/db", got)
}

func TestSubstitutePasswordLeavesDSNWithoutPlaceholderUnchanged(t *testing.T) {
	got := substitutePassword("user:fixed@host/db", "s3cr3t")
	assert.Equal(t, "user:fixed@host/db", got)
}
