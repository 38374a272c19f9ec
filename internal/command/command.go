// Package command implements the Command wrapper around a Prepared
// statement: the session-locking, retry, savepoint, cancellation, and
// timing skeleton shared by execute_query and execute_update (spec.md §4.4
// "Command Wrapper"). It is grounded on the teacher's transaction-wrapping
// shape in database/database.go's RunDDLs (begin, loop statements, roll
// back the whole transaction on the first error, commit once at the end),
// generalized here into a per-statement retry loop with savepoints instead
// of RunDDLs' single whole-batch transaction.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/dberr"
	"github.com/quilldb/quill/internal/engine"
)

// Command is the execution wrapper around a Prepared (spec.md §3
// "Command"). It holds the session reference, the original SQL text, a
// start-time stamp, a cancelled flag and a reusable flag.
type Command struct {
	session engine.Session
	stmt    ast.Prepared
	sql     string

	startedAt time.Time
	cancelled bool
	reusable  bool
	closed    bool
	lazy      bool // true while a query's ResultSet has not yet been closed
	stopped   bool // true once Stop has actually run once
}

// New wraps stmt for execution against session. sql is the original text,
// kept so errors raised only at execution time can be decorated via
// dberr.AddSQL (spec.md §7 "Propagation policy").
func New(session engine.Session, stmt ast.Prepared, sql string) *Command {
	return &Command{session: session, stmt: stmt, sql: sql}
}

// Prepared returns the wrapped statement.
func (c *Command) Prepared() ast.Prepared { return c.stmt }

// NeedRecompile reports whether this Command must be re-parsed before
// reuse: the catalog epoch advanced since it was bound, or it carries the
// prepare-always flag (spec.md §4.6).
func (c *Command) NeedRecompile() bool {
	return c.stmt.PrepareAlways() || c.stmt.Epoch() != c.session.Catalog().Epoch()
}

// Cancel sets the cancellation flag, observed at the retry loop and row-
// scan checkpoints (spec.md §4.4 "cancel()").
func (c *Command) Cancel() {
	c.cancelled = true
	c.session.Cancel()
}

// CanReuse reports whether Close has been called and no later Reuse has
// happened yet (spec.md §8 "Reusability").
func (c *Command) CanReuse() bool { return c.reusable }

// Reuse clears parameter bindings so a closed Command may be handed back
// out by a session's plan cache (spec.md §4.6 "a Closed Command may be
// reused by resetting parameters to unset and clearing the close flag").
func (c *Command) Reuse() {
	c.stmt.Parameters().ResetAll()
	c.reusable = false
	c.closed = false
	c.cancelled = false
	c.stopped = false
	c.session.ResetCancel()
}

// ExecuteQuery runs a query-shaped Prepared (spec.md §4.4 "execute_query").
// maxRows caps the row count (0 = unlimited); fetchSize is forwarded
// verbatim to the session, which owns actual row production. scrollable is
// accepted but not passed on.
func (c *Command) ExecuteQuery(ctx context.Context, maxRows, fetchSize int, scrollable bool) (engine.ResultSet, error) {
	if !c.stmt.IsQuery() {
		return nil, dberr.New(dberr.MethodOnlyAllowedForQuery, "execute_query called on a non-query statement")
	}
	var rs engine.ResultSet
	err := c.run(ctx, false, func(ctx context.Context) error {
		var err error
		rs, err = c.session.Query(ctx, c.stmt, maxRows, fetchSize)
		return err
	})
	if err != nil {
		return nil, err
	}
	// Lazy result: stop() is deferred to the ResultSet's Close (spec.md
	// §4.6 "on lazy result it remains Executing until the caller iterates
	// and releases"; GLOSSARY "Lazy result").
	c.lazy = true
	return &lazyResultSet{ResultSet: rs, cmd: c}, nil
}

// deferStop reports whether run's finally step should skip Stop() because
// the caller is getting back a lazy ResultSet to iterate and close itself
// (spec.md §4.4 step 7 "stop() unless the result is lazy (queries only)").
// It only holds when the statement is a query AND the invocation actually
// succeeded; a failed query has no ResultSet for the caller to close, so it
// must still be stopped here.
func deferStop(stmt ast.Prepared, invokeErr error) bool {
	return stmt.IsQuery() && invokeErr == nil
}

// ExecuteUpdate runs an update-shaped Prepared (spec.md §4.4
// "execute_update").
func (c *Command) ExecuteUpdate(ctx context.Context, keys engine.GeneratedKeysRequest) (engine.UpdateCountWithKeys, error) {
	if c.stmt.IsQuery() {
		return engine.UpdateCountWithKeys{}, dberr.New(dberr.MethodNotAllowedForQuery, "execute_update called on a query statement")
	}
	var result engine.UpdateCountWithKeys
	err := c.run(ctx, true, func(ctx context.Context) error {
		var err error
		result, err = c.session.Update(ctx, c.stmt, keys)
		return err
	})
	return result, err
}

// ExecuteBatchUpdate runs the same Prepared once per row of bound
// parameters, returning one update count per row in order (spec.md §4.4
// "execute_batch_update").
func (c *Command) ExecuteBatchUpdate(ctx context.Context, rows [][]ast.Value, keys engine.GeneratedKeysRequest) (engine.BatchResult, error) {
	if c.stmt.IsQuery() {
		return engine.BatchResult{}, dberr.New(dberr.MethodNotAllowedForQuery, "execute_batch_update called on a query statement")
	}
	counts := make([]int64, 0, len(rows))
	params := c.stmt.Parameters()
	for i, row := range rows {
		if len(row) != len(params) {
			return engine.BatchResult{}, dberr.New(dberr.ColumnCountDoesNotMatch,
				"batch row %d has %d values, statement expects %d", i, len(row), len(params))
		}
		for j, v := range row {
			params[j].Assign(v)
		}
		result, err := c.ExecuteUpdate(ctx, keys)
		if err != nil {
			return engine.BatchResult{Counts: counts}, err
		}
		counts = append(counts, result.Count)
	}
	return engine.BatchResult{Counts: counts}, nil
}

// run implements the shared execution protocol (spec.md §4.4 "Execution
// protocol (query and update share the skeleton)").
func (c *Command) run(ctx context.Context, isUpdate bool, invoke func(context.Context) error) error {
	// 1. Wait for the session to exit exclusive mode.
	if err := c.session.WaitExclusive(ctx); err != nil {
		return err
	}
	// 2. Acquire the session's execution lock, guaranteed release on every
	// exit path (spec.md §5 "a session-level lock acquired in every
	// execute_* and released in a guaranteed-release scope").
	c.session.Lock()
	defer c.session.Unlock()

	// 3. Capture a savepoint for rollback-on-error, updates only.
	var savepoint string
	if isUpdate {
		savepoint = fmt.Sprintf("quill_sp_%p", c)
		if err := c.session.PushSavepoint(savepoint); err != nil {
			return err
		}
	}

	// 4. Record start-time only if tracing/statistics are enabled.
	if c.session.SlowQueryThreshold() > 0 {
		c.startedAt = time.Now()
	}

	err := c.retryLoop(ctx, invoke)

	if err != nil && isUpdate {
		// 6. Roll back: full rollback on Deadlock, else to the savepoint.
		if dberr.As(err, dberr.Deadlock) {
			if rerr := c.session.RollbackAll(); rerr != nil {
				slog.Debug("command: rollback-all after deadlock also failed", "cause", rerr, "original", err)
			}
		} else if rerr := c.session.RollbackToSavepoint(savepoint); rerr != nil {
			slog.Debug("command: rollback to savepoint failed", "cause", rerr, "original", err)
		}
	} else if isUpdate {
		if rerr := c.session.ReleaseSavepoint(savepoint); rerr != nil {
			return rerr
		}
	}

	// 7. finally: end-statement bookkeeping, then stop() unless lazy.
	if !deferStop(c.stmt, err) {
		if stopErr := c.Stop(true); stopErr != nil && err == nil {
			err = stopErr
		}
	}
	return err
}

// retryLoop is spec.md §4.4 step 5: invoke the Prepared's execute/query; on
// a retryable error and only if the Prepared itself is retryable, keep
// retrying until the session's lock-timeout budget is exhausted.
func (c *Command) retryLoop(ctx context.Context, invoke func(context.Context) error) error {
	var firstFailure time.Time
	for {
		if c.cancelled || c.session.Cancelled() {
			return dberr.New(dberr.StatementCancelled, "statement cancelled")
		}
		err := invoke(ctx)
		if err == nil {
			return nil
		}
		if dberr.As(err, dberr.OutOfMemory) {
			// On out-of-memory, trigger immediate database shutdown.
			if serr := c.session.Shutdown("IMMEDIATELY"); serr != nil {
				slog.Debug("command: shutdown-on-oom also failed", "cause", serr)
			}
			return dberr.AddSQL(err, c.sql)
		}
		de, ok := err.(*dberr.Error)
		retryable := ok && de.Code.Retryable() && c.stmt.IsRetryable()
		if !retryable {
			return dberr.AddSQL(err, c.sql)
		}
		if firstFailure.IsZero() {
			firstFailure = time.Now()
		}
		if time.Since(firstFailure) > c.session.LockTimeout() {
			return dberr.New(dberr.LockTimeout, "lock timeout exceeded after retrying %s", de.Code)
		}
		slog.Debug("command: retrying after concurrency conflict", "code", de.Code, "sql", c.sql)
		// Bounded random jitter avoids busy-waiting over a page-store
		// backend (spec.md §5 "may sleep for a bounded random interval
		// (1-11ms)").
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(1+rand.Intn(11)) * time.Millisecond):
		}
	}
}

// Stop releases statement resources and, per spec.md §4.4 "stop()",
// commits if the statement is non-transactional (DDL semantics) or if
// auto-commit is on; it also emits the slow-query trace. Calling Stop more
// than once is a no-op after the first call, so a batch List (spec.md §4.5
// "On stop(), the head and any parsed tails are stopped") can stop every
// command it ran without double-committing ones that already self-stopped
// at the end of their own execution protocol.
func (c *Command) Stop(commitIfAutoCommit bool) error {
	if c.stopped {
		return nil
	}
	c.stopped = true
	c.lazy = false
	shouldCommit := !c.stmt.IsTransactional() || (commitIfAutoCommit && c.session.AutoCommit())
	var err error
	if shouldCommit {
		err = c.session.Commit()
	}
	if !c.startedAt.IsZero() {
		elapsed := time.Since(c.startedAt)
		if elapsed >= c.session.SlowQueryThreshold() {
			slog.Info("slow query", "elapsed_ms", elapsed.Milliseconds(), "sql", c.sql)
		}
	}
	return err
}

// Stopped reports whether Stop has already run once.
func (c *Command) Stopped() bool { return c.stopped }

// Close marks the Command reusable (spec.md §4.4 "close()").
func (c *Command) Close() error {
	if !c.lazy {
		if err := c.Stop(true); err != nil {
			return err
		}
	}
	c.closed = true
	c.reusable = true
	return nil
}

// lazyResultSet defers the owning Command's Stop() until the consumer
// finishes iterating and closes the result (spec.md GLOSSARY "Lazy
// result").
type lazyResultSet struct {
	engine.ResultSet
	cmd *Command
}

func (l *lazyResultSet) Close() error {
	closeErr := l.ResultSet.Close()
	stopErr := l.cmd.Stop(true)
	if closeErr != nil {
		return closeErr
	}
	return stopErr
}
