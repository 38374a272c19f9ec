package lexer

import (
	"testing"

	"github.com/quilldb/quill/internal/dberr"
	"github.com/quilldb/quill/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(t []token.Token) []token.Kind {
	out := make([]token.Kind, len(t))
	for i, tok := range t {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeEndsInExactlyOneEOF(t *testing.T) {
	toks, err := Tokenize("SELECT 1 AS N", DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
	for _, tok := range toks[:len(toks)-1] {
		assert.NotEqual(t, token.EOF, tok.Kind)
	}
}

func TestOffsetMonotonicity(t *testing.T) {
	toks, err := Tokenize("SELECT a, b FROM t WHERE a = 1 AND b <> 2", DefaultConfig())
	require.NoError(t, err)
	for i := 1; i < len(toks); i++ {
		assert.GreaterOrEqual(t, toks[i].Start, toks[i-1].Start)
	}
}

func TestCaseFoldingPreservesKind(t *testing.T) {
	cfg := DefaultConfig()
	upper, err := Tokenize("select", cfg)
	require.NoError(t, err)
	lower, err := Tokenize("SELECT", cfg)
	require.NoError(t, err)
	assert.Equal(t, upper[0].Kind, lower[0].Kind)
	assert.Equal(t, token.SELECT, upper[0].Kind)
}

func TestAdjacentStringLiteralsConcatenate(t *testing.T) {
	toks, err := Tokenize("'foo' 'bar'", DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, []token.Kind{token.STRING, token.EOF}, kinds(toks))
	assert.Equal(t, "foobar", toks[0].Literal)
}

func TestParameterExclusivityRejectsMixedForms(t *testing.T) {
	_, err := Tokenize("SELECT ?1, ?", DefaultConfig())
	require.Error(t, err)
	de, ok := err.(*dberr.Error)
	require.True(t, ok)
	assert.Equal(t, dberr.CannotMixIndexedAndUnindexedParams, de.Code)
}

func TestParameterExclusivityResetsPerStatement(t *testing.T) {
	toks, err := Tokenize("SELECT ?1; SELECT ?", DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, []token.Kind{
		token.SELECT, token.PARAM, token.SEMICOLON,
		token.SELECT, token.PARAM, token.EOF,
	}, kinds(toks))
}

func TestIndexedParameterIsZeroBased(t *testing.T) {
	toks, err := Tokenize("?3", DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, toks[0].ParamIndex)
}

func TestPositionalParameterHasNegativeIndex(t *testing.T) {
	toks, err := Tokenize("?", DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, -1, toks[0].ParamIndex)
}

func TestQuotedIdentifierPreservesCaseAndIsNotFolded(t *testing.T) {
	toks, err := Tokenize(`"MyTable"`, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "MyTable", toks[0].Ident)
	assert.True(t, toks[0].Quoted)
}

func TestUnicodeQuotedIdentifierPreservedVerbatim(t *testing.T) {
	toks, err := Tokenize(`"Δ"`, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "Δ", toks[0].Ident)
	assert.True(t, toks[0].Quoted)
}

func TestDoubledQuoteInsideQuotedIdentIsEmbeddedQuote(t *testing.T) {
	toks, err := Tokenize(`"a""b"`, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, `a"b`, toks[0].Ident)
}

func TestHexBinaryString(t *testing.T) {
	toks, err := Tokenize(`X'AB01'`, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, token.BINARY, toks[0].Kind)
	assert.Equal(t, "AB01", toks[0].Literal)
}

func TestHexBinaryStringOddDigitsIsWrong(t *testing.T) {
	_, err := Tokenize(`X'A'`, DefaultConfig())
	require.Error(t, err)
	de := err.(*dberr.Error)
	assert.Equal(t, dberr.HexStringWrong, de.Code)
}

func TestContinuedHexTokensConcatenate(t *testing.T) {
	toks, err := Tokenize(`X'AB' X'CD'`, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "ABCD", toks[0].Literal)
}

func TestNumericLiteralKinds(t *testing.T) {
	cases := []struct {
		sql  string
		kind token.Kind
	}{
		{"42", token.INTEGER},
		{"42L", token.BIGINT},
		{"42l", token.BIGINT},
		{"4.2", token.DECIMAL},
		{"4e10", token.DECIMAL},
		{"4E-10", token.DECIMAL},
		{".5", token.DECIMAL},
	}
	for _, c := range cases {
		toks, err := Tokenize(c.sql, DefaultConfig())
		require.NoError(t, err, c.sql)
		assert.Equal(t, c.kind, toks[0].Kind, c.sql)
	}
}

func TestNameTooLong(t *testing.T) {
	long := make([]byte, token.MaxIdentifierLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := Tokenize(string(long), DefaultConfig())
	require.Error(t, err)
	de := err.(*dberr.Error)
	assert.Equal(t, dberr.NameTooLong, de.Code)
}

func TestLiteralsNotAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LiteralPolicy = AllowNoLiterals
	_, err := Tokenize("1", cfg)
	require.Error(t, err)
	assert.Equal(t, dberr.LiteralsNotAllowed, err.(*dberr.Error).Code)
}

func TestLiteralsAllowNumbersBlocksStrings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LiteralPolicy = AllowNumberLiterals
	_, err := Tokenize("1", cfg)
	require.NoError(t, err)
	_, err = Tokenize("'x'", cfg)
	require.Error(t, err)
	assert.Equal(t, dberr.LiteralsNotAllowed, err.(*dberr.Error).Code)
}

func TestLineAndBlockComments(t *testing.T) {
	toks, err := Tokenize("SELECT 1 -- trailing comment\n, 2 /* block */ , 3", DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, []token.Kind{
		token.SELECT, token.INTEGER, token.COMMA, token.INTEGER,
		token.COMMA, token.INTEGER, token.EOF,
	}, kinds(toks))
}

func TestNonKeywordOverrideYieldsIdentifier(t *testing.T) {
	cfg := DefaultConfig()
	toks, err := Tokenize("USER", cfg)
	require.NoError(t, err)
	assert.Equal(t, token.USER, toks[0].Kind)

	cfg.NonKeywords = map[token.Kind]bool{token.USER: true}
	toks, err = Tokenize("USER", cfg)
	require.NoError(t, err)
	assert.Equal(t, token.IDENT, toks[0].Kind)
	assert.Equal(t, "USER", toks[0].Ident)
}

func TestDollarQuotedString(t *testing.T) {
	toks, err := Tokenize("$$hello 'world'$$", DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, token.STRING, toks[0].Kind)
	assert.Equal(t, "hello 'world'", toks[0].Literal)
}

func TestCompoundOperators(t *testing.T) {
	toks, err := Tokenize("<= >= <> != || :: := !~ &&", DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.LE, token.GE, token.NE, token.NE, token.CONCAT,
		token.CAST_OP, token.ASSIGN, token.NOT_MATCH_CI, token.AND_AND, token.EOF,
	}, kinds(toks))
}
