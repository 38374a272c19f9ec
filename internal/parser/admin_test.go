package parser

import (
	"testing"

	"github.com/quilldb/quill/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionControl(t *testing.T) {
	cases := map[string]ast.Kind{
		"BEGIN":                    ast.BEGIN,
		"START TRANSACTION":        ast.BEGIN,
		"COMMIT":                   ast.COMMIT,
		"ROLLBACK":                 ast.ROLLBACK,
		"ROLLBACK TO SAVEPOINT s1": ast.ROLLBACK_TO,
		"SAVEPOINT s1":             ast.SAVEPOINT,
		"RELEASE SAVEPOINT s1":     ast.RELEASE,
		"CHECKPOINT":               ast.CHECKPOINT,
		"CHECKPOINT SYNC":          ast.CHECKPOINT,
	}
	for sql, want := range cases {
		t.Run(sql, func(t *testing.T) {
			stmt := parseDefault(t, sql)
			assert.Equal(t, want, stmt.Kind())
			assert.False(t, stmt.IsQuery())
		})
	}
}

func TestParseUse(t *testing.T) {
	stmt := parseDefault(t, "USE analytics")
	u, ok := stmt.(*ast.Use)
	require.True(t, ok)
	assert.Equal(t, "ANALYTICS", u.Schema)
}

func TestParseSetOptionAlwaysRecompiles(t *testing.T) {
	stmt := parseDefault(t, "SET search_path = public")
	so, ok := stmt.(*ast.SetOption)
	require.True(t, ok)
	assert.Equal(t, "SEARCH_PATH", so.Name)
	assert.True(t, so.PrepareAlways())
}

func TestParseShowWithLike(t *testing.T) {
	stmt := parseDefault(t, "SHOW tables LIKE 'foo%'")
	s, ok := stmt.(*ast.Show)
	require.True(t, ok)
	assert.Equal(t, "TABLES", s.Thing)
	assert.Equal(t, "foo%", s.Pattern)
	assert.True(t, s.IsQuery())
}

func TestParseExplain(t *testing.T) {
	stmt := parseDefault(t, "EXPLAIN ANALYZE SELECT a FROM t")
	ex, ok := stmt.(*ast.Explain)
	require.True(t, ok)
	assert.True(t, ex.Analyze)
	assert.Equal(t, ast.SELECT, ex.Target.Kind())
}

func TestParseCall(t *testing.T) {
	stmt := parseDefault(t, "CALL refresh_stats(1, 'x')")
	c, ok := stmt.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "REFRESH_STATS", c.Name)
	require.Len(t, c.Args, 2)
}

func TestParseTruncate(t *testing.T) {
	stmt := parseDefault(t, "TRUNCATE TABLE t")
	tr, ok := stmt.(*ast.Truncate)
	require.True(t, ok)
	assert.Equal(t, "T", tr.Table.Name)
	assert.True(t, tr.IsRetryable())
}

func TestParseAnalyze(t *testing.T) {
	whole := parseDefault(t, "ANALYZE")
	a, ok := whole.(*ast.Analyze)
	require.True(t, ok)
	assert.Nil(t, a.Table)

	scoped := parseDefault(t, "ANALYZE t")
	a2, ok := scoped.(*ast.Analyze)
	require.True(t, ok)
	require.NotNil(t, a2.Table)
	assert.Equal(t, "T", a2.Table.Name)
}

func TestParseBackup(t *testing.T) {
	stmt := parseDefault(t, "BACKUP TO '/tmp/dump.bak'")
	b, ok := stmt.(*ast.Backup)
	require.True(t, ok)
	assert.Equal(t, "/tmp/dump.bak", b.Path)
}

func TestParseGrantAndRevoke(t *testing.T) {
	g := parseDefault(t, "GRANT SELECT, INSERT ON t TO alice")
	grant, ok := g.(*ast.Grant)
	require.True(t, ok)
	require.Len(t, grant.Privileges, 2)
	assert.Equal(t, "T", grant.Object)
	assert.Equal(t, "ALICE", grant.Grantee)

	r := parseDefault(t, "REVOKE SELECT ON t FROM alice")
	revoke, ok := r.(*ast.Revoke)
	require.True(t, ok)
	assert.Equal(t, "ALICE", revoke.Grantee)
}

func TestParseCommentOn(t *testing.T) {
	stmt := parseDefault(t, "COMMENT ON TABLE t IS 'a table'")
	c, ok := stmt.(*ast.CommentOn)
	require.True(t, ok)
	assert.Equal(t, "T", c.Object)
	assert.Equal(t, "a table", c.Text)
}

func TestParseRunScriptAndScript(t *testing.T) {
	rs := parseDefault(t, "RUNSCRIPT FROM '/tmp/seed.sql'")
	r, ok := rs.(*ast.RunScript)
	require.True(t, ok)
	assert.Equal(t, "/tmp/seed.sql", r.Path)

	s := parseDefault(t, "SCRIPT")
	sc, ok := s.(*ast.Script)
	require.True(t, ok)
	assert.Equal(t, "", sc.Path)
}

func TestParseHelp(t *testing.T) {
	bare := parseDefault(t, "HELP")
	h, ok := bare.(*ast.Help)
	require.True(t, ok)
	assert.Equal(t, "", h.Topic)

	topic := parseDefault(t, "HELP select")
	h2, ok := topic.(*ast.Help)
	require.True(t, ok)
	assert.Equal(t, "SELECT", h2.Topic)
}
