package batch

import (
	"context"
	"testing"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/engine"
	"github.com/quilldb/quill/internal/enginetest"
	"github.com/quilldb/quill/internal/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompileAndQueryRunsAllStatementsInOrder matches spec.md §8 scenario 5:
// a batch of `CREATE TABLE ...; INSERT ...; SELECT count(*) ...` where the
// caller ultimately consumes the final statement's result, but every
// statement in between must still run, in order, against the live catalog.
func TestCompileAndQueryRunsAllStatementsInOrder(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)

	var ran []string
	sess.UpdateHook = func(ctx context.Context, stmt ast.Prepared, keys engine.GeneratedKeysRequest) (engine.UpdateCountWithKeys, error) {
		ran = append(ran, stmt.Kind().String())
		if stmt.Kind() == ast.CREATE_TABLE {
			cat.AddTable("t")
		}
		return engine.UpdateCountWithKeys{Count: 1}, nil
	}
	sess.QueryHook = func(ctx context.Context, stmt ast.Prepared, maxRows, fetchSize int) (engine.ResultSet, error) {
		ran = append(ran, stmt.Kind().String())
		return &enginetest.ResultSet{ColumnNames: []string{"count"}}, nil
	}

	list, err := Compile(sess, "CREATE TABLE t (id INT); INSERT INTO t VALUES (1); SELECT count(*) FROM t", lexer.DefaultConfig())
	require.NoError(t, err)

	rs, err := list.Query(context.Background(), 0, 0)
	require.NoError(t, err)
	require.NoError(t, rs.Close())

	require.Len(t, ran, 3)
	assert.Equal(t, []string{
		ast.CREATE_TABLE.String(),
		ast.INSERT.String(),
		ast.SELECT.String(),
	}, ran)
}

// TestUpdatePropagatesHeadFailureWithoutRunningTails matches spec.md §4.5's
// "propagating errors immediately" shape: when the head fails, the tails
// never run.
func TestUpdatePropagatesHeadFailureWithoutRunningTails(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)

	tailRan := false
	sess.UpdateHook = func(ctx context.Context, stmt ast.Prepared, keys engine.GeneratedKeysRequest) (engine.UpdateCountWithKeys, error) {
		if stmt.Kind() == ast.CREATE_TABLE {
			return engine.UpdateCountWithKeys{}, assert.AnError
		}
		tailRan = true
		return engine.UpdateCountWithKeys{Count: 1}, nil
	}

	list, err := Compile(sess, "CREATE TABLE t (id INT); INSERT INTO t VALUES (1)", lexer.DefaultConfig())
	require.NoError(t, err)

	_, err = list.Update(context.Background(), engine.NoGeneratedKeys)
	require.Error(t, err)
	assert.False(t, tailRan, "a tail statement must not run after the head fails")
}

// TestListStopStopsHeadAndAllExecutedTails matches spec.md §4.5 "On stop(),
// the head and any parsed tails are stopped".
func TestListStopStopsHeadAndAllExecutedTails(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	sess.SetAutoCommit(true)

	list, err := Compile(sess, "CREATE TABLE t (id INT); INSERT INTO t VALUES (1); INSERT INTO t VALUES (2)", lexer.DefaultConfig())
	require.NoError(t, err)

	_, err = list.Update(context.Background(), engine.NoGeneratedKeys)
	require.NoError(t, err)

	require.NoError(t, list.Stop(true))
	// One commit per executed statement (head + two tails) happened inline
	// as each ExecuteUpdate ran; Stop must not double-commit or error.
	assert.Equal(t, 3, sess.Committed)
}

// TestCompileQueryMaterializesAndDropsShadowViewsForCTE matches spec.md §8
// scenario 4: a WITH query's shadow views exist only for the duration of
// the compile that parsed them, gone again by the time Query returns.
func TestCompileQueryMaterializesAndDropsShadowViewsForCTE(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	sess.QueryHook = func(ctx context.Context, stmt ast.Prepared, maxRows, fetchSize int) (engine.ResultSet, error) {
		return &enginetest.ResultSet{ColumnNames: []string{"n"}}, nil
	}

	list, err := Compile(sess, "WITH c AS (SELECT 1 AS n) SELECT n FROM c", lexer.DefaultConfig())
	require.NoError(t, err)
	// The shadow view is created and dropped entirely within Compile's
	// parse of the head statement, before Query ever runs.
	assert.Equal(t, 0, cat.ShadowViewCount())

	rs, err := list.Query(context.Background(), 0, 0)
	require.NoError(t, err)
	require.NoError(t, rs.Close())
	assert.Equal(t, 0, cat.ShadowViewCount())
}

// TestCompileSingleStatementLeavesNoRemainder ensures a SQL blob containing
// exactly one statement produces a List whose tail pipeline is a no-op.
func TestCompileSingleStatementLeavesNoRemainder(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)

	list, err := Compile(sess, "UPDATE t SET a = 1 WHERE id = 1", lexer.DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, list.remainder)

	result, err := list.Update(context.Background(), engine.NoGeneratedKeys)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)
}
