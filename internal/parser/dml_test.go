package parser

import (
	"testing"

	"github.com/quilldb/quill/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInsertValues(t *testing.T) {
	stmt := parseDefault(t, "INSERT INTO t (a, b) VALUES (1, 2), (3, ?)")
	ins, ok := stmt.(*ast.Insert)
	require.True(t, ok)
	assert.Equal(t, "T", ins.Table.Name)
	assert.Equal(t, []string{"A", "B"}, ins.Columns)
	require.Len(t, ins.Rows, 2)
	require.Len(t, ins.Parameters(), 1)
}

func TestParseInsertSelect(t *testing.T) {
	stmt := parseDefault(t, "INSERT INTO t SELECT a, b FROM u")
	ins, ok := stmt.(*ast.Insert)
	require.True(t, ok)
	require.NotNil(t, ins.Query)
	assert.Equal(t, ast.SELECT, ins.Query.Kind())
}

func TestParseInsertOnConflictRawTail(t *testing.T) {
	stmt := parseDefault(t, "INSERT INTO t (a) VALUES (1) ON CONFLICT (a) DO NOTHING")
	ins, ok := stmt.(*ast.Insert)
	require.True(t, ok)
	assert.Contains(t, ins.OnConflict, "ON CONFLICT")
}

func TestParseReplace(t *testing.T) {
	stmt := parseDefault(t, "REPLACE INTO t (a, b) VALUES (1, 2)")
	rep, ok := stmt.(*ast.Replace)
	require.True(t, ok)
	assert.Equal(t, "T", rep.Table.Name)
	require.Len(t, rep.Rows, 1)
}

func TestParseUpdate(t *testing.T) {
	stmt := parseDefault(t, "UPDATE t SET a = 1, b = b + 1 WHERE a = ? ORDER BY a LIMIT 5")
	upd, ok := stmt.(*ast.Update)
	require.True(t, ok)
	require.Len(t, upd.Set, 2)
	assert.NotNil(t, upd.Where)
	require.Len(t, upd.OrderBy, 1)
	assert.NotNil(t, upd.Limit)
	assert.True(t, upd.IsTransactional())
	assert.True(t, upd.IsRetryable())
}

func TestParseDelete(t *testing.T) {
	stmt := parseDefault(t, "DELETE FROM t WHERE a = 1")
	del, ok := stmt.(*ast.Delete)
	require.True(t, ok)
	assert.Equal(t, "T", del.Table.Name)
	assert.NotNil(t, del.Where)
}

func TestParseMerge(t *testing.T) {
	stmt := parseDefault(t, `MERGE INTO target USING source ON target.id = source.id
		WHEN MATCHED THEN UPDATE SET a = source.a
		WHEN NOT MATCHED THEN INSERT (id, a) VALUES (source.id, source.a)`)
	m, ok := stmt.(*ast.Merge)
	require.True(t, ok)
	assert.Equal(t, "TARGET", m.Target.Name)
	require.Len(t, m.Actions, 2)
	assert.True(t, m.Actions[0].Matched)
	require.Len(t, m.Actions[0].UpdateSet, 1)
	assert.False(t, m.Actions[1].Matched)
	assert.Equal(t, []string{"ID", "A"}, m.Actions[1].InsertCols)
}

func TestParseMergeSubquerySource(t *testing.T) {
	stmt := parseDefault(t, `MERGE INTO target USING (SELECT id, a FROM staging) AS s ON target.id = s.id
		WHEN MATCHED THEN DELETE`)
	m, ok := stmt.(*ast.Merge)
	require.True(t, ok)
	_, ok = m.Source.(*ast.SubqueryTable)
	require.True(t, ok)
	assert.True(t, m.Actions[0].Delete)
}
