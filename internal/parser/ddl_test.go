package parser

import (
	"testing"

	"github.com/quilldb/quill/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreateTable(t *testing.T) {
	stmt := parseDefault(t, `CREATE TABLE IF NOT EXISTS t (
		id INT PRIMARY KEY IDENTITY,
		name VARCHAR(255) NOT NULL,
		parent_id INT REFERENCES t,
		CONSTRAINT uq_name UNIQUE (name)
	)`)
	ct, ok := stmt.(*ast.CreateTable)
	require.True(t, ok)
	assert.True(t, ct.IfNotExists)
	assert.Equal(t, "T", ct.Name.Name)
	require.Len(t, ct.Columns, 3)
	assert.True(t, ct.Columns[0].PrimaryKey)
	assert.True(t, ct.Columns[0].Identity)
	assert.True(t, ct.Columns[1].NotNull)
	assert.Equal(t, "T", ct.Columns[2].References.Name)
	require.Len(t, ct.Constraints, 1)
	assert.Equal(t, "UNIQUE", ct.Constraints[0].Kind)
	assert.Equal(t, "UQ_NAME", ct.Constraints[0].Name)
}

func TestParseCreateTableAsSelect(t *testing.T) {
	stmt := parseDefault(t, "CREATE TABLE snapshot AS SELECT * FROM t")
	ct, ok := stmt.(*ast.CreateTable)
	require.True(t, ok)
	require.NotNil(t, ct.As)
	assert.Equal(t, ast.SELECT, ct.As.Kind())
}

func TestParseCreateView(t *testing.T) {
	stmt := parseDefault(t, "CREATE OR REPLACE VIEW v AS SELECT a FROM t")
	cv, ok := stmt.(*ast.CreateView)
	require.True(t, ok)
	assert.True(t, cv.OrReplace)
	assert.Equal(t, "V", cv.Name.Name)
}

func TestParseCreateIndex(t *testing.T) {
	stmt := parseDefault(t, "CREATE UNIQUE INDEX idx_t_a ON t (a, b)")
	ci, ok := stmt.(*ast.CreateIndex)
	require.True(t, ok)
	assert.True(t, ci.Unique)
	assert.Equal(t, "IDX_T_A", ci.Name)
	assert.Equal(t, "T", ci.Table.Name)
	require.Len(t, ci.Columns, 2)
}

func TestParseCreateSequence(t *testing.T) {
	stmt := parseDefault(t, "CREATE SEQUENCE seq1 START WITH 1 INCREMENT BY 2 MINVALUE 0 MAXVALUE 100")
	assert.Equal(t, ast.CREATE_SEQUENCE, stmt.Kind())
}

func TestParseDropTable(t *testing.T) {
	stmt := parseDefault(t, "DROP TABLE IF EXISTS t CASCADE")
	d, ok := stmt.(*ast.DropObject)
	require.True(t, ok)
	assert.Equal(t, ast.DROP_TABLE, d.Kind())
	assert.True(t, d.IfExists)
	assert.True(t, d.Cascade)
	assert.Equal(t, "T", d.Name)
}

func TestParseDropMaterializedView(t *testing.T) {
	stmt := parseDefault(t, "DROP MATERIALIZED VIEW mv")
	assert.Equal(t, ast.DROP_MATERIALIZED_VIEW, stmt.Kind())
}

func TestParseAlterTableAddColumn(t *testing.T) {
	stmt := parseDefault(t, "ALTER TABLE t ADD COLUMN c INT NOT NULL")
	at, ok := stmt.(*ast.AlterTable)
	require.True(t, ok)
	assert.Equal(t, ast.ALTER_TABLE_ADD_COLUMN, at.Kind())
	require.NotNil(t, at.AddColumn)
	assert.Equal(t, "C", at.AddColumn.Name)
}

func TestParseAlterTableDropColumn(t *testing.T) {
	stmt := parseDefault(t, "ALTER TABLE t DROP COLUMN c")
	at, ok := stmt.(*ast.AlterTable)
	require.True(t, ok)
	assert.Equal(t, ast.ALTER_TABLE_DROP_COLUMN, at.Kind())
	assert.Equal(t, "C", at.DropColumn)
}

func TestParseAlterTableRename(t *testing.T) {
	stmt := parseDefault(t, "ALTER TABLE t RENAME TO t2")
	at, ok := stmt.(*ast.AlterTable)
	require.True(t, ok)
	assert.Equal(t, ast.ALTER_TABLE_RENAME, at.Kind())
	assert.Equal(t, "T2", at.RenameTo)
}

func TestParseAlterView(t *testing.T) {
	stmt := parseDefault(t, "ALTER VIEW v RENAME TO v2")
	ao, ok := stmt.(*ast.AlterObject)
	require.True(t, ok)
	assert.Equal(t, ast.ALTER_VIEW, ao.Kind())
	assert.Equal(t, "V", ao.Name)
}
