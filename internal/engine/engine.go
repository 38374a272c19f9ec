// Package engine declares the external contracts the core statement
// pipeline depends on but never implements: the schema catalog, the
// execution session, and the row result stream (spec.md §1 "Out of scope
// (external collaborators, interfaces only)", §3 "Session (external)").
//
// internal/command and internal/batch are written entirely against these
// interfaces; internal/enginetest supplies an in-memory double for tests,
// and a real embedding application supplies its own implementation.
package engine

import (
	"context"
	"time"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/lexer"
)

// Session exposes everything the parser and command runtime need from the
// surrounding execution context (spec.md §3 "Session (external)"): current
// schema, search path, user, auto-commit flag, savepoint stack, exclusive-
// mode wait, lock acquisition, cancel flag, literal policy, non-keyword
// overrides, variable-binary flag, and a cast-data provider.
type Session interface {
	// CurrentSchema is the schema name unqualified references resolve
	// against.
	CurrentSchema() string
	// SearchPath is the ordered list of schema names consulted when a
	// reference doesn't specify one.
	SearchPath() []string
	// User is the authenticated identity, used by GRANT/REVOKE and
	// CREATE USER/ROLE.
	User() string

	AutoCommit() bool
	SetAutoCommit(bool)

	// WaitExclusive blocks until no other session holds exclusive mode,
	// or ctx is done.
	WaitExclusive(ctx context.Context) error

	// Lock and Unlock bracket every execute_* call (spec.md §5 "a
	// session-level lock acquired in every execute_* and released in a
	// guaranteed-release scope").
	Lock()
	Unlock()

	Cancelled() bool
	Cancel()
	ResetCancel()

	// PushSavepoint establishes a named rollback point; the same name
	// identifies it to RollbackToSavepoint and ReleaseSavepoint.
	PushSavepoint(name string) error
	RollbackToSavepoint(name string) error
	ReleaseSavepoint(name string) error
	RollbackAll() error
	Commit() error

	LockTimeout() time.Duration
	SlowQueryThreshold() time.Duration

	// LexerConfig carries folding mode, literal policy, non-keyword
	// overrides, and dialect flags in one bundle (spec.md §4.1, §9
	// "Dialect flags").
	LexerConfig() lexer.Config
	VariableBinary() bool

	CastProvider() ast.CastProvider

	Catalog() Catalog

	// Query and Update are the actual plan-walking execution surface the
	// command runtime's retry loop invokes (spec.md §4.4 step 5 "invoke
	// the Prepared's execute/query"). Producing rows and mutating storage
	// is the embedding application's job (spec.md §1 "out of scope");
	// internal/command only mediates locking, retry, savepoints and
	// timing around this call.
	Query(ctx context.Context, stmt ast.Prepared, maxRows, fetchSize int) (ResultSet, error)
	Update(ctx context.Context, stmt ast.Prepared, keys GeneratedKeysRequest) (UpdateCountWithKeys, error)

	// Shutdown is invoked by the command runtime when execution raises
	// OutOfMemory (spec.md §4.4 step 5 "On out-of-memory, trigger
	// immediate database shutdown").
	Shutdown(mode string) error
}

// Catalog is the schema object directory: lookup of tables, views,
// indexes, sequences, domains, functions, users, and roles, plus the
// modification-epoch counter a Prepared snapshots at parse time (spec.md
// §3 "Prepared statement", §4.6 needRecompile).
type Catalog interface {
	// Epoch is the catalog's modification counter; it advances on every
	// committed DDL statement.
	Epoch() int64

	TableExists(schema, name string) bool
	ViewExists(schema, name string) bool
	SequenceExists(schema, name string) bool

	// CreateShadowView registers a throwaway view backing a materialized
	// CTE (spec.md §4.3 "CTE views are materialized as throwaway schema
	// objects ... then cleaned up in reverse creation order").
	CreateShadowView(name string, query ast.SelectStatement) error
	// DropShadowView removes a view created by CreateShadowView.
	DropShadowView(name string) error

	// Lock and Unlock bracket schema-object creation (spec.md §5 "schema-
	// object creation ... must acquire a catalog meta-lock; releases are
	// guaranteed via a scoped acquisition pattern").
	Lock()
	Unlock()
}

// Row is one row of a ResultSet, addressed by zero-based column index.
type Row []ast.Value

// ResultSet is the lazy row stream a query yields (spec.md GLOSSARY "Lazy
// result — a query result whose rows are produced on demand; its Command
// is not stopped until the consumer finishes iterating").
type ResultSet interface {
	Columns() []string
	Next(ctx context.Context) (Row, bool, error)
	Close() error
}

// GeneratedKeysKind tags the generated-keys request union (spec.md §4.4
// "Generated-keys request", §9 "tagged union { None, Auto, ByIndex(list
// <int>), ByName(list<string>) }").
type GeneratedKeysKind int

const (
	GeneratedKeysNone GeneratedKeysKind = iota
	GeneratedKeysAuto
	GeneratedKeysByIndex
	GeneratedKeysByName
)

// GeneratedKeysRequest is the tagged union itself; exactly one of Indexes
// or Names is meaningful, selected by Kind.
type GeneratedKeysRequest struct {
	Kind    GeneratedKeysKind
	Indexes []int
	Names   []string
}

// NoGeneratedKeys is the zero-value "don't bother" request.
var NoGeneratedKeys = GeneratedKeysRequest{Kind: GeneratedKeysNone}

// UpdateCountWithKeys is the result of execute_update (spec.md §4.4).
type UpdateCountWithKeys struct {
	Count        int64
	GeneratedKey ResultSet // nil unless a GeneratedKeysRequest other than None was honored
}

// BatchResult is the result of execute_batch_update: one update count per
// input parameter row, in order.
type BatchResult struct {
	Counts []int64
}
