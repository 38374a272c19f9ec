// Package parser implements the recursive-descent translator from a token
// stream (internal/lexer, internal/token) into typed Prepared statements
// (internal/ast). P is the cursor/expect/accept base (spec.md §4.2); G is
// the grammar built on top of it (spec.md §4.3).
package parser

import (
	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/dberr"
	"github.com/quilldb/quill/internal/token"
)

// cursor is the token-cursor/parser base of spec.md §4.2: position over the
// token list, lookahead, expect/accept primitives, and expected-set
// accumulation used to build "expected: A | B | C" messages.
//
// trackExpected is false during the fast first pass (spec.md §4.3 "Failure
// mode": "a fast pass without expected-set tracking") and true during the
// reparse-for-error second pass.
type cursor struct {
	toks          []token.Token
	pos           int
	sql           string
	trackExpected bool
	expected      []string
	epoch         int64

	foldUpper     bool // exact-compare identifiers against keywords when the session forces uppercase
	nonKeywords   map[token.Kind]bool

	// paramStack is the parameter-scope stack (spec.md §4.2
	// "parameter-scope-push / pop"): each entry collects the Parameters
	// introduced by the subquery currently being parsed, so a nested
	// Query exposes only its own parameters.
	paramStack []*paramScope

	// shadowViews materializes/cleans up CTE shadow views during the parse
	// of a WITH statement's grammar production (spec.md §4.3 "CTE views
	// are materialized as throwaway schema objects during the compile of
	// the inner query, then cleaned up in reverse creation order"). It is
	// nil when a caller parses without a catalog available (e.g. Options{}
	// in a test), in which case parseWith skips shadow-view bookkeeping
	// entirely rather than panicking.
	shadowViews ShadowViewCatalog
}

// ShadowViewCatalog is the narrow slice of engine.Catalog the grammar's
// WITH production needs: it never resolves table/view/sequence existence
// or touches the meta-lock, so it depends on this instead of the whole
// engine.Catalog interface (which would pull internal/engine into every
// parser call site for the sake of two methods).
type ShadowViewCatalog interface {
	CreateShadowView(name string, query ast.SelectStatement) error
	DropShadowView(name string) error
}

type paramScope struct {
	params      ast.ParameterList
	sawIndexed  bool
	sawPositional bool
	nextOrdinal int
}

func newCursor(toks []token.Token, sql string, trackExpected bool, nonKeywords map[token.Kind]bool, foldUpper bool, epoch int64, shadowViews ShadowViewCatalog) *cursor {
	return &cursor{toks: toks, sql: sql, trackExpected: trackExpected, nonKeywords: nonKeywords, foldUpper: foldUpper, epoch: epoch, shadowViews: shadowViews}
}

func (c *cursor) cur() token.Token { return c.toks[c.pos] }

func (c *cursor) peek(k int) token.Token {
	idx := c.pos + k
	if idx >= len(c.toks) {
		return c.toks[len(c.toks)-1] // EOF
	}
	return c.toks[idx]
}

func (c *cursor) advance() token.Token {
	t := c.cur()
	if c.pos < len(c.toks)-1 {
		c.pos++
	}
	if c.trackExpected {
		c.expected = c.expected[:0]
	}
	return t
}

// isKind reports whether the current token has kind k, honoring the
// non-keyword override set (spec.md §4.2 "Quoted tokens never match
// reserved-keyword predicates").
func (c *cursor) isKind(k token.Kind) bool {
	t := c.cur()
	if t.Quoted {
		return false
	}
	if k.IsKeyword() && c.nonKeywords[k] {
		return false
	}
	return t.Kind == k
}

func (c *cursor) addExpected(s string) {
	if !c.trackExpected {
		return
	}
	for _, e := range c.expected {
		if e == s {
			return
		}
	}
	c.expected = append(c.expected, s)
}

// expect advances past a token of kind k or raises Syntax.
func (c *cursor) expect(k token.Kind) (token.Token, error) {
	if c.isKind(k) {
		return c.advance(), nil
	}
	c.addExpected(k.String())
	return token.Token{}, c.syntaxError()
}

// accept advances and returns true if the current token has kind k;
// otherwise adds k to the expected set and returns false without
// consuming.
func (c *cursor) accept(k token.Kind) bool {
	if c.isKind(k) {
		c.advance()
		return true
	}
	c.addExpected(k.String())
	return false
}

// acceptSeq accepts a multi-token sequence atomically: either all kinds
// match consecutively (and are consumed) or none are.
func (c *cursor) acceptSeq(ks ...token.Kind) bool {
	for i, k := range ks {
		if !c.isKindAt(i, k) {
			c.addExpected(seqText(ks))
			return false
		}
	}
	for range ks {
		c.advance()
	}
	return true
}

func (c *cursor) isKindAt(offset int, k token.Kind) bool {
	t := c.peek(offset)
	if t.Quoted {
		return false
	}
	return t.Kind == k
}

func seqText(ks []token.Kind) string {
	s := ""
	for i, k := range ks {
		if i > 0 {
			s += " "
		}
		s += k.String()
	}
	return s
}

func (c *cursor) syntaxError() error {
	t := c.cur()
	e := dberr.New(dberr.Syntax, "unexpected token %q", t.String()).AtPosition(t.Start)
	if c.trackExpected && len(c.expected) > 0 {
		e = e.WithExpected(c.expected)
	}
	return dberr.AddSQL(e, c.sql)
}

func (c *cursor) errorf(code dberr.Code, format string, args ...interface{}) error {
	e := dberr.New(code, format, args...).AtPosition(c.cur().Start)
	return dberr.AddSQL(e, c.sql)
}

// pushParamScope opens a new parameter-scope frame (spec.md §4.2).
func (c *cursor) pushParamScope() {
	c.paramStack = append(c.paramStack, &paramScope{})
}

// popParamScope closes the innermost frame and returns its frozen
// parameter list.
func (c *cursor) popParamScope() (ast.ParameterList, error) {
	n := len(c.paramStack)
	s := c.paramStack[n-1]
	c.paramStack = c.paramStack[:n-1]
	if s.sawIndexed && s.sawPositional {
		return nil, c.errorf(dberr.CannotMixIndexedAndUnindexedParams, "cannot mix indexed and unindexed parameters")
	}
	return s.params, nil
}

// popParamScopeMergeUp closes the innermost frame like popParamScope, but
// additionally folds its parameters into the next frame down (spec.md §8
// "Parameter-scope isolation": the outer Query sees every parameter
// including ones introduced by a nested subquery; only the inner Query
// itself is restricted to just its own). The returned list is the inner
// frame's own parameters, unaffected by the merge.
func (c *cursor) popParamScopeMergeUp() (ast.ParameterList, error) {
	params, err := c.popParamScope()
	if err != nil {
		return nil, err
	}
	if n := len(c.paramStack); n > 0 {
		outer := c.paramStack[n-1]
		outer.params = append(outer.params, params...)
	}
	return params, nil
}

// bindParam records a parameter occurrence (from a PARAM token) in the
// innermost scope and returns the ast.Parameter to reference.
func (c *cursor) bindParam(t token.Token) (*ast.Parameter, error) {
	s := c.paramStack[len(c.paramStack)-1]
	if t.ParamIndex >= 0 {
		s.sawIndexed = true
		p := &ast.Parameter{Index: t.ParamIndex}
		s.params = append(s.params, p)
		return p, nil
	}
	s.sawPositional = true
	p := &ast.Parameter{Index: s.nextOrdinal}
	s.nextOrdinal++
	s.params = append(s.params, p)
	return p, nil
}

// identText returns the current token's folded-for-compare text without
// consuming it, used by keyword-as-identifier lookahead.
func (c *cursor) identText() string {
	t := c.cur()
	if t.Ident != "" {
		return t.Ident
	}
	return t.Kind.String()
}
