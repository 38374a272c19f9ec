package ast

import "strings"

// txnStmt is the common shape of the zero-argument/near-zero-argument
// transaction control statements: BEGIN, COMMIT, ROLLBACK, CHECKPOINT,
// PREPARE COMMIT, SHUTDOWN. None of them touch catalog objects or support
// retry.
type txnStmt struct {
	base
	kind Kind
	text string
}

func (t *txnStmt) Kind() Kind             { return t.kind }
func (t *txnStmt) IsQuery() bool          { return false }
func (t *txnStmt) IsTransactional() bool  { return t.kind != NO_OPERATION }
func (t *txnStmt) IsRetryable() bool      { return false }
func (t *txnStmt) Dependencies() []string { return nil }
func (t *txnStmt) PlanSQL(bool) string    { return t.text }

// Begin is `BEGIN [TRANSACTION]` / `START TRANSACTION`.
type Begin struct{ txnStmt }

func NewBegin(params ParameterList, epoch int64) *Begin {
	return &Begin{txnStmt{base: newBase(params, epoch), kind: BEGIN, text: "BEGIN"}}
}

// Commit is `COMMIT [WORK]`.
type Commit struct{ txnStmt }

func NewCommit(params ParameterList, epoch int64) *Commit {
	return &Commit{txnStmt{base: newBase(params, epoch), kind: COMMIT, text: "COMMIT"}}
}

// Rollback is `ROLLBACK [WORK]`.
type Rollback struct{ txnStmt }

func NewRollback(params ParameterList, epoch int64) *Rollback {
	return &Rollback{txnStmt{base: newBase(params, epoch), kind: ROLLBACK, text: "ROLLBACK"}}
}

// RollbackTo is `ROLLBACK TO SAVEPOINT name`.
type RollbackTo struct {
	txnStmt
	Name string
}

func NewRollbackTo(params ParameterList, epoch int64, name string) *RollbackTo {
	return &RollbackTo{txnStmt{base: newBase(params, epoch), kind: ROLLBACK_TO, text: "ROLLBACK TO SAVEPOINT " + name}, name}
}

// Savepoint is `SAVEPOINT name`.
type Savepoint struct {
	txnStmt
	Name string
}

func NewSavepoint(params ParameterList, epoch int64, name string) *Savepoint {
	return &Savepoint{txnStmt{base: newBase(params, epoch), kind: SAVEPOINT, text: "SAVEPOINT " + name}, name}
}

// Release is `RELEASE SAVEPOINT name`.
type Release struct {
	txnStmt
	Name string
}

func NewRelease(params ParameterList, epoch int64, name string) *Release {
	return &Release{txnStmt{base: newBase(params, epoch), kind: RELEASE, text: "RELEASE SAVEPOINT " + name}, name}
}

// PrepareCommit is the two-phase-commit `PREPARE COMMIT txnID`.
type PrepareCommit struct {
	txnStmt
	TxnID string
}

func NewPrepareCommit(params ParameterList, epoch int64, txnID string) *PrepareCommit {
	return &PrepareCommit{txnStmt{base: newBase(params, epoch), kind: PREPARE_COMMIT, text: "PREPARE COMMIT " + txnID}, txnID}
}

// Checkpoint is `CHECKPOINT [SYNC]`.
type Checkpoint struct {
	txnStmt
	Sync bool
}

func NewCheckpoint(params ParameterList, epoch int64, sync bool) *Checkpoint {
	text := "CHECKPOINT"
	if sync {
		text += " SYNC"
	}
	return &Checkpoint{txnStmt{base: newBase(params, epoch), kind: CHECKPOINT, text: text}, sync}
}

// Shutdown is `SHUTDOWN [IMMEDIATELY | COMPACT | DEFRAG]`.
type Shutdown struct {
	txnStmt
	Mode string
}

func NewShutdown(params ParameterList, epoch int64, mode string) *Shutdown {
	text := "SHUTDOWN"
	if mode != "" {
		text += " " + mode
	}
	return &Shutdown{txnStmt{base: newBase(params, epoch), kind: SHUTDOWN, text: text}, mode}
}

// NoOperation is the empty statement (bare `;` or a comment-only batch
// entry). spec.md §9 Open Questions: kept as its own Kind distinct from
// REPLACE rather than sharing a numeric code.
type NoOperation struct{ txnStmt }

func NewNoOperation(params ParameterList, epoch int64) *NoOperation {
	return &NoOperation{txnStmt{base: newBase(params, epoch), kind: NO_OPERATION, text: ""}}
}

// Use is `USE schemaName`, switching the session's default schema.
type Use struct {
	base
	Schema string
}

func (u *Use) Kind() Kind             { return USE }
func (u *Use) IsQuery() bool          { return false }
func (u *Use) IsTransactional() bool  { return false }
func (u *Use) IsRetryable() bool      { return false }
func (u *Use) Dependencies() []string { return nil }
func (u *Use) PlanSQL(bool) string    { return "USE " + u.Schema }

// SetOption is `SET name = value` (session or database option).
type SetOption struct {
	base
	Name  string
	Value Expr
}

func (s *SetOption) Kind() Kind             { return SET }
func (s *SetOption) IsQuery() bool          { return false }
func (s *SetOption) IsTransactional() bool  { return false }
func (s *SetOption) IsRetryable() bool      { return false }
func (s *SetOption) Dependencies() []string { return nil }
func (s *SetOption) PlanSQL(bool) string    { return "SET " + s.Name + " = " + s.Value.String() }

// Show is `SHOW thing [LIKE pattern]`, a query-shaped introspection
// statement (spec.md §4.3 "Show" is listed among the query kinds).
type Show struct {
	base
	Thing   string
	Pattern string
}

func (*Show) exprNode() {}
func (s *Show) Kind() Kind             { return SHOW }
func (s *Show) IsQuery() bool          { return true }
func (s *Show) IsTransactional() bool  { return false }
func (s *Show) IsRetryable() bool      { return false }
func (s *Show) Dependencies() []string { return nil }
func (s *Show) String() string         { return s.PlanSQL(false) }
func (s *Show) PlanSQL(bool) string {
	out := "SHOW " + s.Thing
	if s.Pattern != "" {
		out += " LIKE " + s.Pattern
	}
	return out
}

// Explain wraps another Prepared to request its plan instead of executing
// it (spec.md §4.3; still a query from the client's perspective).
type Explain struct {
	base
	Analyze bool
	Target  Prepared
}

func (*Explain) exprNode() {}
func (e *Explain) Kind() Kind             { return EXPLAIN }
func (e *Explain) IsQuery() bool          { return true }
func (e *Explain) IsTransactional() bool  { return e.Target.IsTransactional() }
func (e *Explain) IsRetryable() bool      { return false }
func (e *Explain) Dependencies() []string { return e.Target.Dependencies() }
func (e *Explain) String() string         { return e.PlanSQL(false) }
func (e *Explain) PlanSQL(quoteAll bool) string {
	s := "EXPLAIN "
	if e.Analyze {
		s += "ANALYZE "
	}
	return s + e.Target.PlanSQL(quoteAll)
}

// Call is `CALL procedureName(args)`.
type Call struct {
	base
	Name string
	Args []Expr
}

func (c *Call) Kind() Kind             { return CALL }
func (c *Call) IsQuery() bool          { return false }
func (c *Call) IsTransactional() bool  { return true }
func (c *Call) IsRetryable() bool      { return false }
func (c *Call) Dependencies() []string { return []string{c.Name} }
func (c *Call) PlanSQL(bool) string    { return "CALL " + c.Name + "(" + joinExprs(c.Args) + ")" }

// Truncate is `TRUNCATE TABLE name`.
type Truncate struct {
	base
	Table *TableName
}

func (t *Truncate) Kind() Kind             { return TRUNCATE_TABLE }
func (t *Truncate) IsQuery() bool          { return false }
func (t *Truncate) IsTransactional() bool  { return true }
func (t *Truncate) IsRetryable() bool      { return true }
func (t *Truncate) Dependencies() []string { return []string{t.Table.Name} }
func (t *Truncate) PlanSQL(bool) string    { return "TRUNCATE TABLE " + t.Table.String() }

// Analyze is `ANALYZE [table]`.
type Analyze struct {
	base
	Table *TableName // nil means analyze the whole database
}

func (a *Analyze) Kind() Kind             { return ANALYZE }
func (a *Analyze) IsQuery() bool          { return false }
func (a *Analyze) IsTransactional() bool  { return false }
func (a *Analyze) IsRetryable() bool      { return false }
func (a *Analyze) Dependencies() []string {
	if a.Table == nil {
		return nil
	}
	return []string{a.Table.Name}
}
func (a *Analyze) PlanSQL(bool) string {
	if a.Table == nil {
		return "ANALYZE"
	}
	return "ANALYZE " + a.Table.String()
}

// Backup is `BACKUP TO path`.
type Backup struct {
	base
	Path string
}

func (b *Backup) Kind() Kind             { return BACKUP }
func (b *Backup) IsQuery() bool          { return false }
func (b *Backup) IsTransactional() bool  { return false }
func (b *Backup) IsRetryable() bool      { return false }
func (b *Backup) Dependencies() []string { return nil }
func (b *Backup) PlanSQL(bool) string    { return "BACKUP TO '" + b.Path + "'" }

// Privilege is one GRANT/REVOKE target privilege, e.g. SELECT, INSERT, ALL.
type Privilege struct {
	Name    string
	Columns []string
}

// Grant is `GRANT privileges ON object TO grantee`.
type Grant struct {
	base
	Privileges []Privilege
	Object     string
	Grantee    string
}

func (g *Grant) Kind() Kind             { return GRANT }
func (g *Grant) IsQuery() bool          { return false }
func (g *Grant) IsTransactional() bool  { return false }
func (g *Grant) IsRetryable() bool      { return false }
func (g *Grant) Dependencies() []string { return []string{g.Object} }
func (g *Grant) PlanSQL(bool) string {
	names := make([]string, len(g.Privileges))
	for i, p := range g.Privileges {
		names[i] = p.Name
	}
	return "GRANT " + strings.Join(names, ", ") + " ON " + g.Object + " TO " + g.Grantee
}

// Revoke is `REVOKE privileges ON object FROM grantee`.
type Revoke struct {
	base
	Privileges []Privilege
	Object     string
	Grantee    string
}

func (r *Revoke) Kind() Kind             { return REVOKE }
func (r *Revoke) IsQuery() bool          { return false }
func (r *Revoke) IsTransactional() bool  { return false }
func (r *Revoke) IsRetryable() bool      { return false }
func (r *Revoke) Dependencies() []string { return []string{r.Object} }
func (r *Revoke) PlanSQL(bool) string {
	names := make([]string, len(r.Privileges))
	for i, p := range r.Privileges {
		names[i] = p.Name
	}
	return "REVOKE " + strings.Join(names, ", ") + " ON " + r.Object + " FROM " + r.Grantee
}

// CommentOn is `COMMENT ON object IS 'text'`.
type CommentOn struct {
	base
	Object string
	Text   string
}

func (c *CommentOn) Kind() Kind             { return COMMENT }
func (c *CommentOn) IsQuery() bool          { return false }
func (c *CommentOn) IsTransactional() bool  { return false }
func (c *CommentOn) IsRetryable() bool      { return false }
func (c *CommentOn) Dependencies() []string { return []string{c.Object} }
func (c *CommentOn) PlanSQL(bool) string    { return "COMMENT ON " + c.Object + " IS '" + c.Text + "'" }

// RunScript is `RUNSCRIPT FROM 'path'`, executing a batch of statements read
// from an external file (spec.md §4.5's batch dispatch applies to its
// contents once internal/command reads the file).
type RunScript struct {
	base
	Path string
}

func (r *RunScript) Kind() Kind             { return RUNSCRIPT }
func (r *RunScript) IsQuery() bool          { return false }
func (r *RunScript) IsTransactional() bool  { return false }
func (r *RunScript) IsRetryable() bool      { return false }
func (r *RunScript) Dependencies() []string { return nil }
func (r *RunScript) PlanSQL(bool) string    { return "RUNSCRIPT FROM '" + r.Path + "'" }

// Script is `SCRIPT [TO 'path']`, dumping the catalog as a batch of DDL.
type Script struct {
	base
	Path string
}

func (s *Script) Kind() Kind             { return SCRIPT }
func (s *Script) IsQuery() bool          { return false }
func (s *Script) IsTransactional() bool  { return false }
func (s *Script) IsRetryable() bool      { return false }
func (s *Script) Dependencies() []string { return nil }
func (s *Script) PlanSQL(bool) string {
	if s.Path == "" {
		return "SCRIPT"
	}
	return "SCRIPT TO '" + s.Path + "'"
}

// Help is `HELP [topic]`, a query-shaped introspection statement.
type Help struct {
	base
	Topic string
}

func (*Help) exprNode() {}
func (h *Help) Kind() Kind             { return HELP }
func (h *Help) IsQuery() bool          { return true }
func (h *Help) IsTransactional() bool  { return false }
func (h *Help) IsRetryable() bool      { return false }
func (h *Help) Dependencies() []string { return nil }
func (h *Help) String() string         { return h.PlanSQL(false) }
func (h *Help) PlanSQL(bool) string {
	if h.Topic == "" {
		return "HELP"
	}
	return "HELP " + h.Topic
}
