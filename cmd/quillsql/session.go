// Command quillsql is the engine's own REPL/CLI front end (SPEC_FULL.md
// PACKAGE LAYOUT "cmd/quillsql"): it drives the parser, command and
// linked packages against SQL text read from a file or stdin, the same
// "read one statement, run it, move on" shape the teacher's cmd/mysqldef
// main() uses, generalized from schema-diff DDLs to arbitrary statements.
//
// Storage itself stays out of scope (spec.md §1 "external collaborators,
// interfaces only"), so this file's replSession only ever answers two
// kinds of statement for real: CREATE/DROP LINKED TABLE, which it hands to
// internal/linked, and any statement whose sole table dependency is an
// already-opened linked table, which it pushes straight down to that
// connection via stmt.PlanSQL. Every other statement fails fast with a
// clear "no storage backend configured" error instead of pretending to run
// against an in-memory fake.
package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/dberr"
	"github.com/quilldb/quill/internal/engine"
	"github.com/quilldb/quill/internal/lexer"
	"github.com/quilldb/quill/internal/linked"
)

// replCatalog is the minimal engine.Catalog a REPL needs: enough to satisfy
// NeedRecompile and CTE shadow-view bookkeeping, with no real schema
// objects behind it (none can exist without a storage backend).
type replCatalog struct {
	mu          sync.Mutex
	epoch       int64
	shadowViews map[string]ast.SelectStatement
}

func newReplCatalog() *replCatalog {
	return &replCatalog{epoch: 1, shadowViews: map[string]ast.SelectStatement{}}
}

func (c *replCatalog) Epoch() int64 { c.mu.Lock(); defer c.mu.Unlock(); return c.epoch }

func (c *replCatalog) TableExists(schema, name string) bool    { return false }
func (c *replCatalog) ViewExists(schema, name string) bool     { return false }
func (c *replCatalog) SequenceExists(schema, name string) bool { return false }

func (c *replCatalog) CreateShadowView(name string, query ast.SelectStatement) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shadowViews[name] = query
	return nil
}

func (c *replCatalog) DropShadowView(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.shadowViews, name)
	return nil
}

func (c *replCatalog) Lock()   {}
func (c *replCatalog) Unlock() {}

// replCastProvider decodes string literals verbatim; the REPL never sees
// the driver-level escaping rules a real embedding session would enforce.
type replCastProvider struct{}

func (replCastProvider) DecodeString(raw string) (string, error) { return raw, nil }

// replSession implements engine.Session for cmd/quillsql. It has no
// storage of its own; its only real execution surface is the CREATE/DROP
// LINKED TABLE lifecycle and pushdown to an already-opened linked table.
type replSession struct {
	mu sync.Mutex

	schema     string
	autoCommit bool
	cancelled  bool

	cfg      lexer.Config
	provider ast.CastProvider
	catalog  *replCatalog

	registry *linked.Registry
}

func newReplSession(cfg lexer.Config) *replSession {
	return &replSession{
		autoCommit: true,
		cfg:        cfg,
		provider:   replCastProvider{},
		catalog:    newReplCatalog(),
		registry:   linked.NewRegistry(),
	}
}

func (s *replSession) CurrentSchema() string { return s.schema }
func (s *replSession) SearchPath() []string  { return nil }
func (s *replSession) User() string          { return "quillsql" }

func (s *replSession) AutoCommit() bool     { s.mu.Lock(); defer s.mu.Unlock(); return s.autoCommit }
func (s *replSession) SetAutoCommit(v bool) { s.mu.Lock(); defer s.mu.Unlock(); s.autoCommit = v }

func (s *replSession) WaitExclusive(ctx context.Context) error { return nil }

func (s *replSession) Lock()   {}
func (s *replSession) Unlock() {}

func (s *replSession) Cancelled() bool { s.mu.Lock(); defer s.mu.Unlock(); return s.cancelled }
func (s *replSession) Cancel()         { s.mu.Lock(); defer s.mu.Unlock(); s.cancelled = true }
func (s *replSession) ResetCancel()    { s.mu.Lock(); defer s.mu.Unlock(); s.cancelled = false }

func (s *replSession) PushSavepoint(name string) error        { return nil }
func (s *replSession) RollbackToSavepoint(name string) error  { return nil }
func (s *replSession) ReleaseSavepoint(name string) error     { return nil }
func (s *replSession) RollbackAll() error                     { return nil }
func (s *replSession) Commit() error                          { return nil }

func (s *replSession) LockTimeout() time.Duration        { return 5 * time.Second }
func (s *replSession) SlowQueryThreshold() time.Duration { return 0 }

func (s *replSession) LexerConfig() lexer.Config    { return s.cfg }
func (s *replSession) VariableBinary() bool         { return false }
func (s *replSession) CastProvider() ast.CastProvider { return s.provider }
func (s *replSession) Catalog() engine.Catalog      { return s.catalog }

// linkedTarget finds the single linked table a non-DDL statement depends
// on, if any, so it can be pushed down instead of rejected outright.
func (s *replSession) linkedTarget(stmt ast.Prepared) (*linked.Table, bool) {
	deps := stmt.Dependencies()
	if len(deps) != 1 {
		return nil, false
	}
	return s.registry.Get(deps[0])
}

func (s *replSession) Query(ctx context.Context, stmt ast.Prepared, maxRows, fetchSize int) (engine.ResultSet, error) {
	if t, ok := s.linkedTarget(stmt); ok {
		return t.Query(ctx, stmt.PlanSQL(true), nil, s.provider)
	}
	return nil, dberr.New(dberr.UnsupportedFeature,
		"no storage backend configured; only CREATE LINKED TABLE targets can be queried")
}

func (s *replSession) Update(ctx context.Context, stmt ast.Prepared, keys engine.GeneratedKeysRequest) (engine.UpdateCountWithKeys, error) {
	switch v := stmt.(type) {
	case *ast.CreateLinkedTable:
		if _, err := s.registry.Open(ctx, v); err != nil {
			return engine.UpdateCountWithKeys{}, err
		}
		s.catalog.mu.Lock()
		s.catalog.epoch++
		s.catalog.mu.Unlock()
		return engine.UpdateCountWithKeys{Count: 0}, nil
	case *ast.DropObject:
		if v.ObjectKind == ast.DROP_LINKED_TABLE {
			if err := s.registry.Drop(v.Name); err != nil {
				return engine.UpdateCountWithKeys{}, err
			}
			s.catalog.mu.Lock()
			s.catalog.epoch++
			s.catalog.mu.Unlock()
			return engine.UpdateCountWithKeys{Count: 0}, nil
		}
	}
	if t, ok := s.linkedTarget(stmt); ok {
		n, err := t.Exec(ctx, stmt.PlanSQL(true), nil, s.provider)
		if err != nil {
			return engine.UpdateCountWithKeys{}, err
		}
		return engine.UpdateCountWithKeys{Count: n}, nil
	}
	return engine.UpdateCountWithKeys{}, dberr.New(dberr.UnsupportedFeature,
		"no storage backend configured; only CREATE/DROP LINKED TABLE and pushdown to a linked table are supported")
}

func (s *replSession) Shutdown(mode string) error {
	return fmt.Errorf("quillsql: shutdown requested (%s)", mode)
}
