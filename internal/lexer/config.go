package lexer

import "github.com/quilldb/quill/internal/token"

// FoldMode controls how unquoted identifiers are case-folded before keyword
// lookup and before being stored as the canonical identifier text (spec.md
// §4.1 "Input: ... identifier folding mode").
type FoldMode int

const (
	FoldUpper FoldMode = iota
	FoldLower
	FoldPreserve
)

// LiteralPolicy mirrors the SET ALLOW_LITERALS option (spec.md §6): how far
// the session lets literals appear in incoming SQL text.
type LiteralPolicy int

const (
	AllowAllLiterals LiteralPolicy = iota
	AllowNumberLiterals
	AllowNoLiterals
)

// Dialect is the flat configuration record spec.md §9 "Design notes"
// prescribes in place of class-level subclassing: every tokenizer/parser
// production that varies between compatibility modes reads from here.
type Dialect struct {
	AllowBacktickIdent  bool // MySQL-style `ident`
	AllowBracketIdent   bool // SQL-Server-style [ident]
	AllowDollarQuoting  bool // $$...$$ string delimiter
	HexIsBinaryString   bool // 0x.. literal is BINARY, not INTEGER
	AllowDoubleSlashCmt bool // // line comments, in addition to --
}

// DefaultDialect matches the grammar coverage spec.md §4.3 lists as the
// baseline: double-quoted identifiers plus the MySQL/SQL-Server compat
// extensions most productions are conditioned on.
func DefaultDialect() Dialect {
	return Dialect{
		AllowBacktickIdent:  true,
		AllowBracketIdent:   true,
		AllowDollarQuoting:  true,
		HexIsBinaryString:   false,
		AllowDoubleSlashCmt: true,
	}
}

// Config is the configuration bundle spec.md §4.1 passes to the tokenizer:
// folding mode, non-keyword overrides, literal policy, and dialect flags.
type Config struct {
	Fold FoldMode

	// NonKeywords is the session-level "non-keyword override" set
	// (GLOSSARY): reserved words the user has opted out of, accepted as
	// identifiers instead of keywords wherever an identifier is expected.
	NonKeywords map[token.Kind]bool

	LiteralPolicy LiteralPolicy
	// SuspendLiteralChecks disables LiteralPolicy enforcement entirely,
	// matching spec.md §4.1 "(unless parse-time checks are globally
	// suspended)".
	SuspendLiteralChecks bool

	Dialect Dialect
}

// DefaultConfig is the baseline tokenizer configuration: uppercase folding,
// no overrides, all literals allowed.
func DefaultConfig() Config {
	return Config{
		Fold:          FoldUpper,
		NonKeywords:   nil,
		LiteralPolicy: AllowAllLiterals,
		Dialect:       DefaultDialect(),
	}
}

func (c Config) fold(s string) string {
	switch c.Fold {
	case FoldLower:
		return toLower(s)
	case FoldPreserve:
		return s
	default:
		return toUpper(s)
	}
}

func toUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
