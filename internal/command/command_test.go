package command

import (
	"context"
	"testing"
	"time"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/dberr"
	"github.com/quilldb/quill/internal/engine"
	"github.com/quilldb/quill/internal/enginetest"
	"github.com/quilldb/quill/internal/lexer"
	"github.com/quilldb/quill/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, sql string) ast.Prepared {
	t.Helper()
	stmt, err := parser.Parse(sql, parser.Options{Config: lexer.DefaultConfig(), Epoch: 1})
	require.NoError(t, err)
	return stmt
}

func TestExecuteUpdateCommitsAndReleasesSavepoint(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	stmt := mustParse(t, "UPDATE t SET a = 1 WHERE id = 1")
	cmd := New(sess, stmt, "UPDATE t SET a = 1 WHERE id = 1")

	result, err := cmd.ExecuteUpdate(context.Background(), engine.NoGeneratedKeys)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)
	assert.Len(t, sess.ReleasedSPs, 1)
	assert.Empty(t, sess.RolledBackTo)
	assert.Equal(t, 1, sess.Committed)
}

func TestAtMostOneSuccessRollsBackOnFailure(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	sess.UpdateHook = func(ctx context.Context, stmt ast.Prepared, keys engine.GeneratedKeysRequest) (engine.UpdateCountWithKeys, error) {
		return engine.UpdateCountWithKeys{}, dberr.New(dberr.InvalidValue, "boom")
	}
	stmt := mustParse(t, "UPDATE t SET a = 1 WHERE id = 1")
	cmd := New(sess, stmt, "UPDATE t SET a = 1 WHERE id = 1")

	_, err := cmd.ExecuteUpdate(context.Background(), engine.NoGeneratedKeys)
	require.Error(t, err)
	assert.Len(t, sess.RolledBackTo, 1)
	assert.Empty(t, sess.ReleasedSPs)
}

func TestDeadlockRollsBackEverything(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	sess.UpdateHook = func(ctx context.Context, stmt ast.Prepared, keys engine.GeneratedKeysRequest) (engine.UpdateCountWithKeys, error) {
		return engine.UpdateCountWithKeys{}, dberr.New(dberr.Deadlock, "deadlock detected")
	}
	stmt := mustParse(t, "DELETE FROM t WHERE id = 1")
	cmd := New(sess, stmt, "DELETE FROM t WHERE id = 1")

	_, err := cmd.ExecuteUpdate(context.Background(), engine.NoGeneratedKeys)
	require.Error(t, err)
	assert.Equal(t, 1, sess.RolledBackAll)
	assert.Empty(t, sess.RolledBackTo)
}

func TestRetriesConcurrentUpdateUntilSuccess(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	attempts := 0
	sess.UpdateHook = func(ctx context.Context, stmt ast.Prepared, keys engine.GeneratedKeysRequest) (engine.UpdateCountWithKeys, error) {
		attempts++
		if attempts < 3 {
			return engine.UpdateCountWithKeys{}, dberr.New(dberr.ConcurrentUpdate, "row changed underneath us")
		}
		return engine.UpdateCountWithKeys{Count: 1}, nil
	}
	stmt := mustParse(t, "UPDATE t SET a = 1 WHERE id = 1")
	cmd := New(sess, stmt, "UPDATE t SET a = 1 WHERE id = 1")

	result, err := cmd.ExecuteUpdate(context.Background(), engine.NoGeneratedKeys)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Count)
	assert.Equal(t, 3, attempts)
}

func TestRetryBoundedByLockTimeout(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	sess.SetLockTimeout(20 * time.Millisecond)
	sess.UpdateHook = func(ctx context.Context, stmt ast.Prepared, keys engine.GeneratedKeysRequest) (engine.UpdateCountWithKeys, error) {
		return engine.UpdateCountWithKeys{}, dberr.New(dberr.ConcurrentUpdate, "never resolves")
	}
	stmt := mustParse(t, "UPDATE t SET a = 1 WHERE id = 1")
	cmd := New(sess, stmt, "UPDATE t SET a = 1 WHERE id = 1")

	start := time.Now()
	_, err := cmd.ExecuteUpdate(context.Background(), engine.NoGeneratedKeys)
	elapsed := time.Since(start)
	require.Error(t, err)
	assert.True(t, dberr.As(err, dberr.LockTimeout))
	assert.Less(t, elapsed, sess.LockTimeout()+500*time.Millisecond)
}

func TestNonRetryableDDLPropagatesImmediately(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	attempts := 0
	sess.UpdateHook = func(ctx context.Context, stmt ast.Prepared, keys engine.GeneratedKeysRequest) (engine.UpdateCountWithKeys, error) {
		attempts++
		return engine.UpdateCountWithKeys{}, dberr.New(dberr.ConcurrentUpdate, "irrelevant for DDL")
	}
	stmt := mustParse(t, "CREATE TABLE t (id INT)")
	cmd := New(sess, stmt, "CREATE TABLE t (id INT)")

	_, err := cmd.ExecuteUpdate(context.Background(), engine.NoGeneratedKeys)
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "a non-retryable statement must not be retried")
}

func TestExecuteQueryOnUpdateStatementRejected(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	stmt := mustParse(t, "UPDATE t SET a = 1")
	cmd := New(sess, stmt, "UPDATE t SET a = 1")

	_, err := cmd.ExecuteQuery(context.Background(), 0, 0, false)
	require.Error(t, err)
	assert.True(t, dberr.As(err, dberr.MethodOnlyAllowedForQuery))
}

func TestExecuteUpdateOnQueryRejected(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	stmt := mustParse(t, "SELECT 1")
	cmd := New(sess, stmt, "SELECT 1")

	_, err := cmd.ExecuteUpdate(context.Background(), engine.NoGeneratedKeys)
	require.Error(t, err)
	assert.True(t, dberr.As(err, dberr.MethodNotAllowedForQuery))
}

func TestLazyQueryDefersStopUntilResultClosed(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	sess.SetAutoCommit(true)
	stmt := mustParse(t, "SELECT 1")
	cmd := New(sess, stmt, "SELECT 1")

	rs, err := cmd.ExecuteQuery(context.Background(), 0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 0, sess.Committed, "a lazy result must not commit until closed")
	require.NoError(t, rs.Close())
	assert.Equal(t, 1, sess.Committed)
}

func TestCancellationStopsRetryLoop(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	stmt := mustParse(t, "UPDATE t SET a = 1 WHERE id = 1")
	cmd := New(sess, stmt, "UPDATE t SET a = 1 WHERE id = 1")
	cmd.Cancel()

	_, err := cmd.ExecuteUpdate(context.Background(), engine.NoGeneratedKeys)
	require.Error(t, err)
	assert.True(t, dberr.As(err, dberr.StatementCancelled))
}

func TestSlowQueryTrace(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	sess.SetSlowQueryThreshold(1 * time.Millisecond)
	sess.UpdateHook = func(ctx context.Context, stmt ast.Prepared, keys engine.GeneratedKeysRequest) (engine.UpdateCountWithKeys, error) {
		time.Sleep(5 * time.Millisecond)
		return engine.UpdateCountWithKeys{Count: 1}, nil
	}
	stmt := mustParse(t, "UPDATE t SET a = 1 WHERE id = 1")
	cmd := New(sess, stmt, "UPDATE t SET a = 1 WHERE id = 1")

	_, err := cmd.ExecuteUpdate(context.Background(), engine.NoGeneratedKeys)
	require.NoError(t, err)
	// The trace itself goes through log/slog; this test only confirms the
	// timing bookkeeping that feeds it completed without error, matching
	// spec.md §8 scenario 7's precondition (elapsed exceeds threshold).
}

func TestReusabilityAfterClose(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	stmt := mustParse(t, "UPDATE t SET a = ? WHERE id = 1")
	cmd := New(sess, stmt, "UPDATE t SET a = ? WHERE id = 1")
	stmt.Parameters()[0].Assign(ast.Value{Kind: ast.VInteger, Int: 7})

	require.NoError(t, cmd.Close())
	assert.True(t, cmd.CanReuse())
	cmd.Reuse()
	assert.False(t, cmd.CanReuse())
	assert.False(t, stmt.Parameters()[0].Assigned())
}

func TestNeedRecompileOnEpochAdvance(t *testing.T) {
	cat := enginetest.NewCatalog()
	sess := enginetest.NewSession(cat)
	stmt := mustParse(t, "SELECT 1")
	cmd := New(sess, stmt, "SELECT 1")
	assert.False(t, cmd.NeedRecompile())
	cat.Advance()
	assert.True(t, cmd.NeedRecompile())
}
