// Package enginetest provides an in-memory Session/Catalog/ResultSet
// double implementing internal/engine's contracts, used by
// internal/command and internal/batch tests. It is not part of the public
// surface (spec.md PACKAGE LAYOUT: "not part of the public surface; used
// by command/batch tests").
package enginetest

import (
	"context"
	"sync"
	"time"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/engine"
	"github.com/quilldb/quill/internal/lexer"
)

// Catalog is the in-memory engine.Catalog double.
type Catalog struct {
	mu          sync.Mutex
	epoch       int64
	tables      map[string]bool
	views       map[string]bool
	sequences   map[string]bool
	shadowViews map[string]ast.SelectStatement
}

// NewCatalog builds an empty catalog at epoch 1.
func NewCatalog() *Catalog {
	return &Catalog{
		epoch:       1,
		tables:      map[string]bool{},
		views:       map[string]bool{},
		sequences:   map[string]bool{},
		shadowViews: map[string]ast.SelectStatement{},
	}
}

func (c *Catalog) Epoch() int64 { c.mu.Lock(); defer c.mu.Unlock(); return c.epoch }

// Advance bumps the modification epoch, simulating a committed DDL
// statement (spec.md §3 "a recompile is required if the catalog has
// advanced").
func (c *Catalog) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
}

func (c *Catalog) AddTable(name string)    { c.mu.Lock(); defer c.mu.Unlock(); c.tables[name] = true }
func (c *Catalog) AddView(name string)     { c.mu.Lock(); defer c.mu.Unlock(); c.views[name] = true }
func (c *Catalog) AddSequence(name string) { c.mu.Lock(); defer c.mu.Unlock(); c.sequences[name] = true }

func (c *Catalog) TableExists(schema, name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tables[name]
}
func (c *Catalog) ViewExists(schema, name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.views[name]
}
func (c *Catalog) SequenceExists(schema, name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sequences[name]
}

func (c *Catalog) CreateShadowView(name string, query ast.SelectStatement) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shadowViews[name] = query
	return nil
}

func (c *Catalog) DropShadowView(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.shadowViews, name)
	return nil
}

// ShadowViewCount reports how many shadow views remain registered, used by
// tests asserting CTE cleanup happened (spec.md §8 scenario 4).
func (c *Catalog) ShadowViewCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.shadowViews)
}

func (c *Catalog) Lock()   {}
func (c *Catalog) Unlock() {}

// ResultSet is a canned row stream.
type ResultSet struct {
	ColumnNames []string
	Rows        []engine.Row
	idx         int
	closed      bool
}

func (r *ResultSet) Columns() []string { return r.ColumnNames }

func (r *ResultSet) Next(ctx context.Context) (engine.Row, bool, error) {
	if r.idx >= len(r.Rows) {
		return nil, false, nil
	}
	row := r.Rows[r.idx]
	r.idx++
	return row, true, nil
}

func (r *ResultSet) Close() error { r.closed = true; return nil }
func (r *ResultSet) Closed() bool { return r.closed }

// QueryFunc and UpdateFunc let a test script canned behavior, including
// returning a retryable *dberr.Error a bounded number of times before
// succeeding (spec.md §8 "Retry bound").
type QueryFunc func(ctx context.Context, stmt ast.Prepared, maxRows, fetchSize int) (engine.ResultSet, error)
type UpdateFunc func(ctx context.Context, stmt ast.Prepared, keys engine.GeneratedKeysRequest) (engine.UpdateCountWithKeys, error)

// Session is the in-memory engine.Session double.
type Session struct {
	mu sync.Mutex

	Schema   string
	Path     []string
	UserName string

	autoCommit bool
	cancelled  bool
	locked     bool

	lockTimeout   time.Duration
	slowThreshold time.Duration

	cfg      lexer.Config
	varBin   bool
	provider ast.CastProvider
	catalog  *Catalog

	QueryHook  QueryFunc
	UpdateHook UpdateFunc

	Savepoints      []string
	Committed       int
	RolledBackAll   int
	RolledBackTo    []string
	ReleasedSPs     []string
	ShutdownCalls   []string
	WaitExclusiveN  int
}

// NewSession builds a ready-to-use Session double with sane defaults:
// auto-commit on, a generous lock timeout, and a zero-valued (disabled)
// slow-query threshold.
func NewSession(catalog *Catalog) *Session {
	return &Session{
		autoCommit:  true,
		lockTimeout: 2 * time.Second,
		cfg:         lexer.DefaultConfig(),
		catalog:     catalog,
		provider:    PassthroughCastProvider{},
	}
}

func (s *Session) CurrentSchema() string { return s.Schema }
func (s *Session) SearchPath() []string  { return s.Path }
func (s *Session) User() string          { return s.UserName }

func (s *Session) AutoCommit() bool      { s.mu.Lock(); defer s.mu.Unlock(); return s.autoCommit }
func (s *Session) SetAutoCommit(v bool)  { s.mu.Lock(); defer s.mu.Unlock(); s.autoCommit = v }

func (s *Session) WaitExclusive(ctx context.Context) error {
	s.mu.Lock()
	s.WaitExclusiveN++
	s.mu.Unlock()
	return nil
}

func (s *Session) Lock()   { s.mu.Lock(); s.locked = true; s.mu.Unlock() }
func (s *Session) Unlock() { s.mu.Lock(); s.locked = false; s.mu.Unlock() }

func (s *Session) Cancelled() bool { s.mu.Lock(); defer s.mu.Unlock(); return s.cancelled }
func (s *Session) Cancel()         { s.mu.Lock(); defer s.mu.Unlock(); s.cancelled = true }
func (s *Session) ResetCancel()    { s.mu.Lock(); defer s.mu.Unlock(); s.cancelled = false }

func (s *Session) PushSavepoint(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Savepoints = append(s.Savepoints, name)
	return nil
}
func (s *Session) RollbackToSavepoint(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RolledBackTo = append(s.RolledBackTo, name)
	return nil
}
func (s *Session) ReleaseSavepoint(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ReleasedSPs = append(s.ReleasedSPs, name)
	return nil
}
func (s *Session) RollbackAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RolledBackAll++
	return nil
}
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Committed++
	return nil
}

func (s *Session) LockTimeout() time.Duration         { return s.lockTimeout }
func (s *Session) SetLockTimeout(d time.Duration)     { s.lockTimeout = d }
func (s *Session) SlowQueryThreshold() time.Duration  { return s.slowThreshold }
func (s *Session) SetSlowQueryThreshold(d time.Duration) { s.slowThreshold = d }

func (s *Session) LexerConfig() lexer.Config { return s.cfg }
func (s *Session) VariableBinary() bool      { return s.varBin }
func (s *Session) CastProvider() ast.CastProvider { return s.provider }
func (s *Session) Catalog() engine.Catalog   { return s.catalog }

func (s *Session) Query(ctx context.Context, stmt ast.Prepared, maxRows, fetchSize int) (engine.ResultSet, error) {
	if s.QueryHook != nil {
		return s.QueryHook(ctx, stmt, maxRows, fetchSize)
	}
	return &ResultSet{}, nil
}

func (s *Session) Update(ctx context.Context, stmt ast.Prepared, keys engine.GeneratedKeysRequest) (engine.UpdateCountWithKeys, error) {
	if s.UpdateHook != nil {
		return s.UpdateHook(ctx, stmt, keys)
	}
	return engine.UpdateCountWithKeys{Count: 1}, nil
}

func (s *Session) Shutdown(mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ShutdownCalls = append(s.ShutdownCalls, mode)
	return nil
}

// PassthroughCastProvider decodes strings verbatim; sufficient for tests
// that never exercise escape sequences.
type PassthroughCastProvider struct{}

func (PassthroughCastProvider) DecodeString(raw string) (string, error) { return raw, nil }
