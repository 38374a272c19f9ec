package parser

import (
	"testing"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/dberr"
	"github.com/quilldb/quill/internal/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDefault(t *testing.T, sql string) ast.Prepared {
	t.Helper()
	stmt, err := Parse(sql, Options{Config: lexer.DefaultConfig(), Epoch: 1})
	require.NoError(t, err)
	return stmt
}

// Scenario 1: simple select (spec.md §8 end-to-end scenarios).
func TestSimpleSelect(t *testing.T) {
	stmt := parseDefault(t, "SELECT 1 AS N")
	sel, ok := stmt.(*ast.Select)
	require.True(t, ok)
	assert.Equal(t, ast.SELECT, sel.Kind())
	assert.True(t, sel.IsQuery())
	assert.Empty(t, sel.Parameters())
	require.Len(t, sel.SelectExprs, 1)
	assert.Equal(t, "1 AS N", sel.SelectExprs[0].String())
}

// Scenario 2: positional parameters.
func TestPositionalParameters(t *testing.T) {
	stmt := parseDefault(t, "SELECT ? + ?")
	sel, ok := stmt.(*ast.Select)
	require.True(t, ok)
	require.Len(t, sel.Parameters(), 2)
	assert.Equal(t, 0, sel.Parameters()[0].Index)
	assert.Equal(t, 1, sel.Parameters()[1].Index)
}

// Scenario 3: mixing indexed and positional parameters is rejected.
func TestIndexedParameterMixingRejected(t *testing.T) {
	_, err := Parse("SELECT ?1, ?", Options{Config: lexer.DefaultConfig()})
	require.Error(t, err)
	de, ok := err.(*dberr.Error)
	require.True(t, ok)
	assert.Equal(t, dberr.CannotMixIndexedAndUnindexedParams, de.Code)
}

// Scenario 8: quoted identifiers are preserved verbatim, not folded.
func TestUnicodeIdentifierPreservedVerbatim(t *testing.T) {
	stmt := parseDefault(t, `SELECT 1 AS "Δ"`)
	sel, ok := stmt.(*ast.Select)
	require.True(t, ok)
	aliased, ok := sel.SelectExprs[0].(*ast.AliasedExpr)
	require.True(t, ok)
	assert.Equal(t, "Δ", aliased.As)
}

// Round-trip law: parse(S).plan_sql() is accepted by parse and produces a
// Prepared with the same statement-kind code.
func TestRoundTripLaw(t *testing.T) {
	cases := []string{
		"SELECT a, b FROM t WHERE a = 1 ORDER BY b LIMIT 10",
		"INSERT INTO t (a, b) VALUES (1, 2)",
		"UPDATE t SET a = 1 WHERE b = 2",
		"DELETE FROM t WHERE a = 1",
		"SELECT a FROM t UNION SELECT b FROM u",
	}
	for _, sql := range cases {
		t.Run(sql, func(t *testing.T) {
			first, err := Parse(sql, Options{Config: lexer.DefaultConfig()})
			require.NoError(t, err)
			replanned := first.PlanSQL(false)
			second, err := Parse(replanned, Options{Config: lexer.DefaultConfig()})
			require.NoError(t, err, "replan of %q failed to reparse", replanned)
			assert.Equal(t, first.Kind(), second.Kind())
		})
	}
}

// Idempotent prepare: parsing the same text twice at the same epoch leaves
// the Prepared observationally unchanged.
func TestIdempotentPrepare(t *testing.T) {
	const sql = "SELECT a FROM t WHERE a = ?"
	a, err := Parse(sql, Options{Config: lexer.DefaultConfig(), Epoch: 5})
	require.NoError(t, err)
	b, err := Parse(sql, Options{Config: lexer.DefaultConfig(), Epoch: 5})
	require.NoError(t, err)
	assert.Equal(t, a.Kind(), b.Kind())
	assert.Equal(t, a.PlanSQL(false), b.PlanSQL(false))
	assert.Equal(t, len(a.Parameters()), len(b.Parameters()))
	assert.Equal(t, a.Epoch(), b.Epoch())
}

// Parameter-scope isolation: given SELECT ?1, (SELECT ?2 FROM DUAL), the
// outer Query sees both parameters; the inner Query sees only ?2.
func TestParameterScopeIsolation(t *testing.T) {
	stmt := parseDefault(t, "SELECT ?1, (SELECT ?2 FROM DUAL)")
	outer, ok := stmt.(*ast.Select)
	require.True(t, ok)
	require.Len(t, outer.Parameters(), 2)

	require.Len(t, outer.SelectExprs, 2)
	sub, ok := outer.SelectExprs[1].(*ast.AliasedExpr).Expr.(*ast.Subquery)
	require.True(t, ok)
	inner, ok := sub.Select.(*ast.Select)
	require.True(t, ok)
	require.Len(t, inner.Parameters(), 1)
	assert.Equal(t, 1, inner.Parameters()[0].Index)
}

// Expected-set completeness: for any syntactically invalid prefix, the
// error's expected-set is non-empty and every element is a valid
// continuation (spelled out as "SELECT" not being a bare token kind name
// like "ILLEGAL").
func TestExpectedSetCompleteness(t *testing.T) {
	_, err := Parse("SELECT a FROM", Options{Config: lexer.DefaultConfig()})
	require.Error(t, err)
	de, ok := err.(*dberr.Error)
	require.True(t, ok)
	assert.Equal(t, dberr.Syntax, de.Code)
	require.NotEmpty(t, de.Expected)
	for _, e := range de.Expected {
		assert.NotEmpty(t, e)
	}
}
