// Package batch implements the Command list / batch dispatch described in
// spec.md §4.5 "Command List": a head Command plus a list of
// prepared-but-unexecuted tail statements plus optional remaining unparsed
// SQL text. It is grounded on the teacher's multi-statement driving loop in
// cmd/mysqldef/mysqldef.go and cli.go (read one statement, run it, move on
// to the next, propagating errors immediately) generalized to prepare each
// tail lazily so later statements can see schema objects earlier ones
// created.
package batch

import (
	"context"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/command"
	"github.com/quilldb/quill/internal/engine"
	"github.com/quilldb/quill/internal/lexer"
	"github.com/quilldb/quill/internal/parser"
)

// Parser is the shape of a function that parses one leading statement out
// of sql and returns it with the unparsed rest. Nothing in this package uses
// it: Compile and the lazy tail parsing call parser.ParsePrefix directly
// (see parseOne).
type Parser func(sql string) (ast.Prepared, string, error)

// List is the ordered sequence `(head, tail₁, …, tailₙ, remainder?)` of
// spec.md §3 "Command list". head is already a *command.Command; tails
// start as parsed-but-not-yet-wrapped Prepareds and are wrapped into
// Commands lazily, one at a time, right before they run — so a tail that
// references an object the head just created resolves correctly.
type List struct {
	session   engine.Session
	head      *command.Command
	tailStmts []ast.Prepared
	tailSQL   []string
	remainder string

	executed []*command.Command // head plus every tail actually run, in order, for stop()
}

// New builds a List from an already-wrapped head Command, a slice of
// already-parsed tail Prepareds with their original SQL text (for error
// decoration), and optional unparsed remainder text.
func New(session engine.Session, head *command.Command, tailStmts []ast.Prepared, tailSQL []string, remainder string) *List {
	return &List{
		session:   session,
		head:      head,
		tailStmts: tailStmts,
		tailSQL:   tailSQL,
		remainder: remainder,
		executed:  []*command.Command{head},
	}
}

// Compile splits raw multi-statement SQL text into a List (spec.md §4.5):
// it parses only the first statement eagerly (the head); every statement
// after the first semicolon is kept as unparsed remainder and parsed one
// at a time inside Update/Query, per spec.md §4.5 step 3 "parse it in the
// current session (so it sees catalog changes by prior statements)".
func Compile(session engine.Session, sql string, cfg lexer.Config) (*List, error) {
	stmt, rest, err := parseOne(sql, cfg, session.Catalog())
	if err != nil {
		return nil, err
	}
	head := command.New(session, stmt, sql[:len(sql)-len(rest)])
	return New(session, head, nil, nil, rest), nil
}

func parseOne(sql string, cfg lexer.Config, catalog engine.Catalog) (ast.Prepared, string, error) {
	stmt, consumed, err := parser.ParsePrefix(sql, parser.Options{Config: cfg, Epoch: catalog.Epoch(), ShadowViews: catalog})
	if err != nil {
		return nil, "", err
	}
	return stmt, sql[consumed:], nil
}

// Update runs the list as an update pipeline (spec.md §4.5 "On update() or
// query()"): execute the head, then each tail in order (re-parsing the
// remainder lazily against the live catalog), returning the head's result.
func (l *List) Update(ctx context.Context, keys engine.GeneratedKeysRequest) (engine.UpdateCountWithKeys, error) {
	result, err := l.head.ExecuteUpdate(ctx, keys)
	if err != nil {
		return result, err
	}
	if err := l.runTailsAsUpdates(ctx, keys); err != nil {
		return result, err
	}
	return result, nil
}

// Query runs the list as a query pipeline: the head is executed as a query
// (its lazy ResultSet is what the caller ultimately consumes); tails run as
// updates or queries according to their own IsQuery(), matching spec.md
// scenario 5 ("CREATE TABLE ...; INSERT ...; SELECT count(*) ...") where
// only the final statement in the list is the one whose result matters.
func (l *List) Query(ctx context.Context, maxRows, fetchSize int) (engine.ResultSet, error) {
	rs, err := l.head.ExecuteQuery(ctx, maxRows, fetchSize, false)
	if err != nil {
		return nil, err
	}
	if err := l.runTailsAsUpdates(ctx, engine.NoGeneratedKeys); err != nil {
		rs.Close()
		return nil, err
	}
	return rs, nil
}

// runTailsAsUpdates drives every already-parsed tail, then the remainder
// text one statement at a time, per spec.md §4.5 steps 2-3.
func (l *List) runTailsAsUpdates(ctx context.Context, keys engine.GeneratedKeysRequest) error {
	for i, stmt := range l.tailStmts {
		sql := ""
		if i < len(l.tailSQL) {
			sql = l.tailSQL[i]
		}
		cmd := command.New(l.session, stmt, sql)
		l.executed = append(l.executed, cmd)
		if err := execOne(ctx, cmd, stmt, keys); err != nil {
			return err
		}
	}
	rest := l.remainder
	for len(rest) > 0 {
		stmt, tail, err := parseOne(rest, l.session.LexerConfig(), l.session.Catalog())
		if err != nil {
			return err
		}
		sql := rest[:len(rest)-len(tail)]
		cmd := command.New(l.session, stmt, sql)
		l.executed = append(l.executed, cmd)
		if err := execOne(ctx, cmd, stmt, keys); err != nil {
			return err
		}
		rest = tail
	}
	l.remainder = ""
	return nil
}

func execOne(ctx context.Context, cmd *command.Command, stmt ast.Prepared, keys engine.GeneratedKeysRequest) error {
	if stmt.IsQuery() {
		rs, err := cmd.ExecuteQuery(ctx, 0, 0, false)
		if err != nil {
			return err
		}
		return rs.Close()
	}
	_, err := cmd.ExecuteUpdate(ctx, keys)
	return err
}

// Stop stops the head and every tail that actually ran; each stop is
// attempted even if an earlier one fails, and the first error is returned,
// matching the teacher's "keep going, report the first failure" shape in
// RunDDLs (spec.md §4.5 "On stop(), the head and any parsed tails are
// stopped; CTE cleanup is invoked for each tail").
func (l *List) Stop(commitIfAutoCommit bool) error {
	var first error
	for _, cmd := range l.executed {
		if err := cmd.Stop(commitIfAutoCommit); err != nil && first == nil {
			first = err
		}
	}
	return first
}
