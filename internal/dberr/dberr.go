// Package dberr defines the closed taxonomy of statement-processing errors
// (spec.md §7) as a stable, numeric-coded error type. Every tokenizer,
// parser, and command-runtime failure is reported through *dberr.Error so
// callers can switch on Code instead of matching message text.
package dberr

import "fmt"

// Code is a stable numeric error code. Client tooling may depend on these
// values the same way it depends on the statement-kind codes in
// internal/ast, so once assigned a Code must never be renumbered.
type Code int

const (
	Unknown Code = iota
	Syntax
	NameTooLong
	LiteralsNotAllowed
	HexStringWrong
	InvalidValueScalePrecision
	InvalidValue
	UnknownDataType
	DuplicateColumnName
	ColumnCountDoesNotMatch
	ColumnNotFound
	TableOrViewNotFound
	SchemaNotFound
	SequenceNotFound
	FunctionNotFound
	FunctionAliasAlreadyExists
	ConstantAlreadyExists
	DatabaseNotFound
	CannotMixIndexedAndUnindexedParams
	StatementCancelled
	ConcurrentUpdate
	RowNotFoundInPrimaryIndex
	RowNotFoundWhenDeleting
	LockTimeout
	Deadlock
	OutOfMemory
	ConnectionBroken
	MethodNotAllowedForQuery
	MethodOnlyAllowedForQuery
	UnsupportedFeature
)

var codeNames = map[Code]string{
	Unknown:                            "UNKNOWN",
	Syntax:                             "SYNTAX",
	NameTooLong:                        "NAME_TOO_LONG",
	LiteralsNotAllowed:                 "LITERALS_NOT_ALLOWED",
	HexStringWrong:                     "HEX_STRING_WRONG",
	InvalidValueScalePrecision:         "INVALID_VALUE_SCALE_PRECISION",
	InvalidValue:                       "INVALID_VALUE",
	UnknownDataType:                    "UNKNOWN_DATA_TYPE",
	DuplicateColumnName:                "DUPLICATE_COLUMN_NAME",
	ColumnCountDoesNotMatch:            "COLUMN_COUNT_DOES_NOT_MATCH",
	ColumnNotFound:                     "COLUMN_NOT_FOUND",
	TableOrViewNotFound:                "TABLE_OR_VIEW_NOT_FOUND",
	SchemaNotFound:                     "SCHEMA_NOT_FOUND",
	SequenceNotFound:                   "SEQUENCE_NOT_FOUND",
	FunctionNotFound:                   "FUNCTION_NOT_FOUND",
	FunctionAliasAlreadyExists:         "FUNCTION_ALIAS_ALREADY_EXISTS",
	ConstantAlreadyExists:              "CONSTANT_ALREADY_EXISTS",
	DatabaseNotFound:                   "DATABASE_NOT_FOUND",
	CannotMixIndexedAndUnindexedParams: "CANNOT_MIX_INDEXED_AND_UNINDEXED_PARAMS",
	StatementCancelled:                 "STATEMENT_CANCELLED",
	ConcurrentUpdate:                   "CONCURRENT_UPDATE",
	RowNotFoundInPrimaryIndex:          "ROW_NOT_FOUND_IN_PRIMARY_INDEX",
	RowNotFoundWhenDeleting:            "ROW_NOT_FOUND_WHEN_DELETING",
	LockTimeout:                        "LOCK_TIMEOUT",
	Deadlock:                           "DEADLOCK",
	OutOfMemory:                        "OUT_OF_MEMORY",
	ConnectionBroken:                   "CONNECTION_BROKEN",
	MethodNotAllowedForQuery:           "METHOD_NOT_ALLOWED_FOR_QUERY",
	MethodOnlyAllowedForQuery:          "METHOD_ONLY_ALLOWED_FOR_QUERY",
	UnsupportedFeature:                 "UNSUPPORTED_FEATURE",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// retryable is the set of codes the command runtime (internal/command) will
// re-drive inside its retry loop, per spec.md §4.4/§5: only concurrency
// conflicts on a retryable (DML) Prepared, never DDL.
var retryable = map[Code]bool{
	ConcurrentUpdate:          true,
	RowNotFoundInPrimaryIndex: true,
	RowNotFoundWhenDeleting:   true,
}

// Retryable reports whether an error of this code may be retried by the
// command wrapper's retry loop.
func (c Code) Retryable() bool {
	return retryable[c]
}

// Error is the taxonomy's concrete type. SQL and Position are attached by
// the tokenizer/parser at the point of failure; the command runtime adds
// them via AddSQL when an error surfaces only at execution time.
type Error struct {
	Code     Code
	Message  string
	SQL      string
	Position int // byte offset into SQL, -1 if unknown
	Expected []string
	cause    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if len(e.Expected) > 0 {
		msg += " (expected: " + joinExpected(e.Expected) + ")"
	}
	if e.SQL != "" {
		msg += fmt.Sprintf(" [sql=%q pos=%d]", e.SQL, e.Position)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.cause }

func joinExpected(xs []string) string {
	out := ""
	for i, x := range xs {
		if i > 0 {
			out += " | "
		}
		out += x
	}
	return out
}

// New builds a positionless Error of the given code.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Position: -1}
}

// Wrap builds an Error of the given code that wraps an underlying cause
// (used when the command runtime converts a session/catalog failure into
// the typed taxonomy, spec.md §7 "Propagation policy").
func Wrap(code Code, cause error) *Error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Code: code, Message: msg, Position: -1, cause: cause}
}

// AtPosition attaches the offending source position (spec.md §4.3
// "Failure mode": "Errors always carry the SQL text and the byte offset of
// the failing token").
func (e *Error) AtPosition(pos int) *Error {
	e.Position = pos
	return e
}

// WithExpected attaches the expected-continuation set built by the parser's
// reparse-for-error pass (spec.md §9 "Expected-set").
func (e *Error) WithExpected(expected []string) *Error {
	e.Expected = expected
	return e
}

// AddSQL decorates an error raised during execution with the statement text
// that produced it, per spec.md §7 "Propagation policy".
func AddSQL(err error, sql string) error {
	if err == nil {
		return nil
	}
	if de, ok := err.(*Error); ok {
		if de.SQL == "" {
			de.SQL = sql
		}
		return de
	}
	return &Error{Code: Unknown, Message: err.Error(), SQL: sql, Position: -1, cause: err}
}

// As reports whether err is a *Error of the given code.
func As(err error, code Code) bool {
	de, ok := err.(*Error)
	if !ok {
		return false
	}
	return de.Code == code
}
