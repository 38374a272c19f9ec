package parser

import (
	"testing"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJoinChain(t *testing.T) {
	stmt := parseDefault(t, `SELECT * FROM a
		INNER JOIN b ON a.id = b.a_id
		LEFT JOIN c ON b.id = c.b_id
		CROSS JOIN d`)
	sel, ok := stmt.(*ast.Select)
	require.True(t, ok)
	require.Len(t, sel.From, 1)
	cross, ok := sel.From[0].(*ast.JoinExpr)
	require.True(t, ok)
	assert.Equal(t, "CROSS", cross.Join)
	left, ok := cross.Left.(*ast.JoinExpr)
	require.True(t, ok)
	assert.Equal(t, "LEFT OUTER", left.Join)
}

func TestParseUsingJoin(t *testing.T) {
	stmt := parseDefault(t, "SELECT * FROM a JOIN b USING (id)")
	sel := stmt.(*ast.Select)
	j, ok := sel.From[0].(*ast.JoinExpr)
	require.True(t, ok)
	assert.Equal(t, []string{"ID"}, j.Using)
}

func TestParseValuesStatement(t *testing.T) {
	stmt := parseDefault(t, "VALUES (1, 2), (3, 4)")
	v, ok := stmt.(*ast.Values)
	require.True(t, ok)
	assert.Equal(t, ast.VALUES, v.Kind())
	require.Len(t, v.Rows, 2)
}

func TestParseTableStatement(t *testing.T) {
	stmt := parseDefault(t, "TABLE t")
	assert.Equal(t, ast.TABLE, stmt.Kind())
}

func TestParseUnionOfSetOps(t *testing.T) {
	stmt := parseDefault(t, "SELECT a FROM t INTERSECT SELECT a FROM u UNION ALL SELECT a FROM v")
	op, ok := stmt.(*ast.SetOperation)
	require.True(t, ok)
	assert.Equal(t, "UNION ALL", op.Op)
	_, ok = op.Left.(*ast.SetOperation)
	require.True(t, ok, "INTERSECT must bind tighter than UNION")
}

func TestParseLimitOffsetAndFetch(t *testing.T) {
	mysqlStyle := parseDefault(t, "SELECT a FROM t LIMIT 10 OFFSET 5").(*ast.Select)
	require.NotNil(t, mysqlStyle.LimitClause)
	assert.NotNil(t, mysqlStyle.LimitClause.Limit)
	assert.NotNil(t, mysqlStyle.LimitClause.Offset)

	standard := parseDefault(t, "SELECT a FROM t OFFSET 5 ROWS FETCH FIRST 10 ROWS ONLY").(*ast.Select)
	require.NotNil(t, standard.LimitClause)
	assert.NotNil(t, standard.LimitClause.Limit)
	assert.NotNil(t, standard.LimitClause.Offset)
}

func TestParseOrderByNulls(t *testing.T) {
	stmt := parseDefault(t, "SELECT a FROM t ORDER BY a DESC NULLS LAST").(*ast.Select)
	require.Len(t, stmt.OrderBy, 1)
	assert.True(t, stmt.OrderBy[0].Desc)
	require.NotNil(t, stmt.OrderBy[0].NullsFirst)
	assert.False(t, *stmt.OrderBy[0].NullsFirst)
}

func TestParseLockClause(t *testing.T) {
	stmt := parseDefault(t, "SELECT a FROM t FOR UPDATE").(*ast.Select)
	require.NotNil(t, stmt.Lock)
	assert.Equal(t, "UPDATE", stmt.Lock.Mode)
}

func TestParseWindowFunctionOverNamedWindow(t *testing.T) {
	stmt := parseDefault(t, `SELECT row_number() OVER w FROM t
		WINDOW w AS (PARTITION BY a ORDER BY b ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW)`).(*ast.Select)
	require.Len(t, stmt.Windows, 1)
	assert.Equal(t, "W", stmt.Windows[0].Name)
	require.NotNil(t, stmt.Windows[0].Spec)
}

func TestParseRecursiveCTE(t *testing.T) {
	stmt := parseDefault(t, `WITH RECURSIVE r(n) AS (
		VALUES(1) UNION ALL SELECT n+1 FROM r WHERE n<5
	) SELECT sum(n) FROM r`)
	w, ok := stmt.(*ast.With)
	require.True(t, ok)
	assert.True(t, w.Recursive)
	require.Len(t, w.CTEs, 1)
	assert.Equal(t, "R", w.CTEs[0].Name)
	assert.Equal(t, []string{"N"}, w.CTEs[0].Columns)
	assert.Equal(t, ast.SELECT, w.Body.Kind())
}

// fakeShadowCatalog is a minimal ShadowViewCatalog recording creation and
// drop order, used to verify the WITH production's shadow-view lifecycle
// (spec.md §4.3, §8 scenario 4) independent of any engine.Catalog.
type fakeShadowCatalog struct {
	created []string
	dropped []string
}

func (f *fakeShadowCatalog) CreateShadowView(name string, query ast.SelectStatement) error {
	f.created = append(f.created, name)
	return nil
}

func (f *fakeShadowCatalog) DropShadowView(name string) error {
	f.dropped = append(f.dropped, name)
	return nil
}

func TestParseWithCreatesAndDropsShadowViewsInReverseOrder(t *testing.T) {
	cat := &fakeShadowCatalog{}
	stmt, err := Parse(`WITH a AS (SELECT 1), b AS (SELECT 2) SELECT * FROM a, b`,
		Options{Config: lexer.DefaultConfig(), ShadowViews: cat})
	require.NoError(t, err)
	_, ok := stmt.(*ast.With)
	require.True(t, ok)

	assert.Equal(t, []string{"A", "B"}, cat.created)
	assert.Equal(t, []string{"B", "A"}, cat.dropped)
}

func TestParseWithoutShadowViewsSkipsBookkeeping(t *testing.T) {
	stmt, err := Parse(`WITH a AS (SELECT 1) SELECT * FROM a`, Options{Config: lexer.DefaultConfig()})
	require.NoError(t, err)
	_, ok := stmt.(*ast.With)
	require.True(t, ok)
}

func TestParseWithBodyRejectsUnsupportedStatement(t *testing.T) {
	_, err := Parse("WITH x AS (SELECT 1) DROP TABLE x", Options{})
	require.Error(t, err)
}

func TestParseDistinctOn(t *testing.T) {
	stmt := parseDefault(t, "SELECT DISTINCT ON (a) a, b FROM t").(*ast.Select)
	assert.True(t, stmt.Distinct)
	require.Len(t, stmt.DistinctOn, 1)
}
