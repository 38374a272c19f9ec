package parser

import (
	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/dberr"
	"github.com/quilldb/quill/internal/lexer"
	"github.com/quilldb/quill/internal/token"
)

// grammar is G of spec.md §2: the recursive-descent grammar built on top of
// the cursor/expect/accept base (P). It has no state of its own beyond what
// *cursor already carries; splitting it from cursor keeps the primitives
// (spec.md §4.2) visibly separate from the productions (spec.md §4.3).
type grammar struct {
	*cursor
}

// Options carries the pieces of Session a parse needs without requiring the
// whole interface at parse time: fold mode, non-keyword overrides, literal
// dialect, and the epoch to snapshot into the resulting Prepared (spec.md
// §3 "Prepared statement", §4.6).
type Options struct {
	Config lexer.Config
	Epoch  int64

	// ShadowViews lets the grammar's WITH production materialize and clean
	// up CTE shadow views (spec.md §4.3). It is optional: nil disables
	// shadow-view bookkeeping, which is fine for tests and statements with
	// no CTEs, but a real embedding session should always pass its
	// catalog here.
	ShadowViews ShadowViewCatalog
}

// Parse implements spec.md §4.3 "Failure mode": a fast first pass without
// expected-set tracking, and only on syntax error a full reparse with
// tracking enabled so the error carries a complete expected-continuation
// set. Both passes tokenize once; only the cursor's trackExpected flag and
// position reset between them.
func Parse(sql string, opts Options) (ast.Prepared, error) {
	toks, err := lexer.Tokenize(sql, opts.Config)
	if err != nil {
		return nil, dberr.AddSQL(err, sql)
	}
	foldUpper := opts.Config.Fold == lexer.FoldUpper

	stmt, err := parseOnce(toks, sql, opts.Epoch, false, opts.Config.NonKeywords, foldUpper, opts.ShadowViews)
	if err == nil {
		return stmt, nil
	}
	if !dberr.As(err, dberr.Syntax) {
		return nil, err
	}
	// Reparse for a complete expected-set; the fast pass's syntax error is
	// discarded in favor of the richer one.
	_, err2 := parseOnce(toks, sql, opts.Epoch, true, opts.Config.NonKeywords, foldUpper, opts.ShadowViews)
	if err2 != nil {
		return nil, err2
	}
	// The reparse pass must fail the same way the fast pass did; if it
	// somehow succeeds, surface the original error rather than silently
	// returning two different outcomes for the same input.
	return nil, err
}

func parseOnce(toks []token.Token, sql string, epoch int64, trackExpected bool, nonKeywords map[token.Kind]bool, foldUpper bool, shadowViews ShadowViewCatalog) (ast.Prepared, error) {
	stmt, _, err := parseOneStatement(toks, sql, epoch, trackExpected, nonKeywords, foldUpper, true, shadowViews)
	return stmt, err
}

// parseOneStatement runs the grammar for exactly one statement starting at
// token 0 and returns it alongside the cursor's resting byte offset into
// sql. When requireEOF is set, trailing non-EOF input is a syntax error
// (Parse's shape); when it is clear, the caller gets the leftover text back
// instead (ParsePrefix's shape, spec.md §4.5 "Command List" lazily reparsing
// one statement at a time out of a larger SQL blob).
func parseOneStatement(toks []token.Token, sql string, epoch int64, trackExpected bool, nonKeywords map[token.Kind]bool, foldUpper bool, requireEOF bool, shadowViews ShadowViewCatalog) (ast.Prepared, int, error) {
	c := newCursor(toks, sql, trackExpected, nonKeywords, foldUpper, epoch, shadowViews)
	g := &grammar{cursor: c}
	g.pushParamScope()
	stmt, err := g.parseStatement()
	if err != nil {
		return nil, 0, err
	}
	if requireEOF {
		if _, err := g.expect(token.EOF); err != nil {
			return nil, 0, err
		}
	}
	params, err := g.popParamScope()
	if err != nil {
		return nil, 0, err
	}
	if b, ok := stmt.(ast.Binder); ok {
		b.Bind(params, epoch)
	}
	return stmt, c.cur().Start, nil
}

// ParsePrefix parses exactly one leading statement (including its
// terminating semicolon, if present) out of sql and returns it together with
// the byte offset where the remaining, unconsumed text begins. Unlike Parse,
// it does not require the input to end at EOF, so callers can drive a
// multi-statement blob one statement at a time (spec.md §4.5 "Command
// List"). It retains Parse's two-pass failure mode: the fast pass runs
// without expected-set tracking, and only a Syntax error triggers a full
// reparse with tracking enabled.
func ParsePrefix(sql string, opts Options) (ast.Prepared, int, error) {
	toks, err := lexer.Tokenize(sql, opts.Config)
	if err != nil {
		return nil, 0, dberr.AddSQL(err, sql)
	}
	foldUpper := opts.Config.Fold == lexer.FoldUpper

	stmt, consumed, err := parseOneStatement(toks, sql, opts.Epoch, false, opts.Config.NonKeywords, foldUpper, false, opts.ShadowViews)
	if err == nil {
		return stmt, consumed, nil
	}
	if !dberr.As(err, dberr.Syntax) {
		return nil, 0, err
	}
	_, consumed2, err2 := parseOneStatement(toks, sql, opts.Epoch, true, opts.Config.NonKeywords, foldUpper, false, opts.ShadowViews)
	if err2 != nil {
		return nil, 0, err2
	}
	return nil, consumed2, err
}

// parseStatement is the single entry point spec.md §4.3 "Statements"
// dispatches from: query forms, DML, DDL, and transaction/admin
// statements, optionally followed by a terminating semicolon.
func (g *grammar) parseStatement() (ast.Prepared, error) {
	var stmt ast.Prepared
	var err error
	switch {
	case g.isKind(token.WITH) && !g.cur().Quoted:
		stmt, err = g.parseWith()
	case g.startsSelectish() || g.isKind(token.LPAREN):
		stmt, err = g.parseSelectish()
	case g.isKind(token.INSERT):
		stmt, err = g.parseInsert()
	case g.isKind(token.REPLACE):
		stmt, err = g.parseReplace()
	case g.isKind(token.UPDATE):
		stmt, err = g.parseUpdate()
	case g.isKind(token.DELETE):
		stmt, err = g.parseDelete()
	case g.isKind(token.MERGE):
		stmt, err = g.parseMerge()
	case g.isKind(token.CREATE):
		stmt, err = g.parseCreate()
	case g.isKind(token.DROP):
		stmt, err = g.parseDrop()
	case g.isKind(token.ALTER):
		stmt, err = g.parseAlter()
	default:
		stmt, err = g.parseAdminStatement()
	}
	if err != nil {
		return nil, err
	}
	g.accept(token.SEMICOLON)
	return stmt, nil
}
