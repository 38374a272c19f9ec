package ast

import "strings"

// ColumnDef is one column in a CREATE TABLE or ADD COLUMN clause.
type ColumnDef struct {
	Name         string
	Type         string
	NotNull      bool
	Default      Expr
	PrimaryKey   bool
	Unique       bool
	References   *TableName
	Identity     bool
	Collation    string
}

func (c *ColumnDef) String() string {
	s := c.Name + " " + c.Type
	if c.NotNull {
		s += " NOT NULL"
	}
	if c.Default != nil {
		s += " DEFAULT " + c.Default.String()
	}
	if c.PrimaryKey {
		s += " PRIMARY KEY"
	}
	if c.Unique {
		s += " UNIQUE"
	}
	if c.References != nil {
		s += " REFERENCES " + c.References.String()
	}
	return s
}

// TableConstraint is a table-level PRIMARY KEY/UNIQUE/FOREIGN KEY/CHECK
// constraint.
type TableConstraint struct {
	Name       string
	Kind       string // PRIMARY KEY, UNIQUE, FOREIGN KEY, CHECK
	Columns    []string
	References *TableName
	RefColumns []string
	Check      Expr
}

// CreateTable is `CREATE TABLE [IF NOT EXISTS] name (cols/constraints) [AS query]`.
type CreateTable struct {
	base
	Name        *TableName
	IfNotExists bool
	Temporary   bool
	Columns     []ColumnDef
	Constraints []TableConstraint
	As          SelectStatement // CREATE TABLE ... AS SELECT
}

func (c *CreateTable) Kind() Kind             { return CREATE_TABLE }
func (c *CreateTable) IsQuery() bool          { return false }
func (c *CreateTable) IsTransactional() bool  { return false }
func (c *CreateTable) IsRetryable() bool      { return false }
func (c *CreateTable) Dependencies() []string { return []string{c.Name.Name} }
func (c *CreateTable) PlanSQL(bool) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if c.Temporary {
		b.WriteString("TEMPORARY ")
	}
	b.WriteString("TABLE ")
	if c.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(c.Name.String())
	if c.As != nil {
		b.WriteString(" AS " + c.As.String())
		return b.String()
	}
	parts := make([]string, 0, len(c.Columns)+len(c.Constraints))
	for _, col := range c.Columns {
		parts = append(parts, col.String())
	}
	for _, ct := range c.Constraints {
		parts = append(parts, ct.Kind+" ("+strings.Join(ct.Columns, ", ")+")")
	}
	b.WriteString(" (" + strings.Join(parts, ", ") + ")")
	return b.String()
}

// CreateView is `CREATE [OR REPLACE] VIEW name [(cols)] AS query`.
type CreateView struct {
	base
	Name      *TableName
	OrReplace bool
	Columns   []string
	Query     SelectStatement
}

func (c *CreateView) Kind() Kind             { return CREATE_VIEW }
func (c *CreateView) IsQuery() bool          { return false }
func (c *CreateView) IsTransactional() bool  { return false }
func (c *CreateView) IsRetryable() bool      { return false }
func (c *CreateView) Dependencies() []string { return append([]string{c.Name.Name}, c.Query.(interface{ Dependencies() []string }).Dependencies()...) }
func (c *CreateView) PlanSQL(bool) string {
	s := "CREATE "
	if c.OrReplace {
		s += "OR REPLACE "
	}
	s += "VIEW " + c.Name.String()
	if len(c.Columns) > 0 {
		s += " (" + strings.Join(c.Columns, ", ") + ")"
	}
	return s + " AS " + c.Query.String()
}

// CreateMaterializedView is the same shape as CreateView with eager storage.
type CreateMaterializedView struct {
	base
	Name    *TableName
	Columns []string
	Query   SelectStatement
}

func (c *CreateMaterializedView) Kind() Kind             { return CREATE_MATERIALIZED_VIEW }
func (c *CreateMaterializedView) IsQuery() bool          { return false }
func (c *CreateMaterializedView) IsTransactional() bool  { return false }
func (c *CreateMaterializedView) IsRetryable() bool      { return false }
func (c *CreateMaterializedView) Dependencies() []string { return []string{c.Name.Name} }
func (c *CreateMaterializedView) PlanSQL(bool) string {
	return "CREATE MATERIALIZED VIEW " + c.Name.String() + " AS " + c.Query.String()
}

// IndexColumn is one column (with optional sort direction) of an index.
type IndexColumn struct {
	Name string
	Desc bool
}

// CreateIndex is `CREATE [UNIQUE] INDEX name ON table (cols)`.
type CreateIndex struct {
	base
	Name     string
	Table    *TableName
	Columns  []IndexColumn
	Unique   bool
	IfNotExists bool
}

func (c *CreateIndex) Kind() Kind             { return CREATE_INDEX }
func (c *CreateIndex) IsQuery() bool          { return false }
func (c *CreateIndex) IsTransactional() bool  { return false }
func (c *CreateIndex) IsRetryable() bool      { return false }
func (c *CreateIndex) Dependencies() []string { return []string{c.Table.Name} }
func (c *CreateIndex) PlanSQL(bool) string {
	cols := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		cols[i] = col.Name
		if col.Desc {
			cols[i] += " DESC"
		}
	}
	s := "CREATE "
	if c.Unique {
		s += "UNIQUE "
	}
	s += "INDEX " + c.Name + " ON " + c.Table.String() + " (" + strings.Join(cols, ", ") + ")"
	return s
}

// CreateSchema is `CREATE SCHEMA [IF NOT EXISTS] name [AUTHORIZATION owner]`.
type CreateSchema struct {
	base
	Name        string
	IfNotExists bool
	Authorization string
}

func (c *CreateSchema) Kind() Kind             { return CREATE_SCHEMA }
func (c *CreateSchema) IsQuery() bool          { return false }
func (c *CreateSchema) IsTransactional() bool  { return false }
func (c *CreateSchema) IsRetryable() bool      { return false }
func (c *CreateSchema) Dependencies() []string { return nil }
func (c *CreateSchema) PlanSQL(bool) string {
	s := "CREATE SCHEMA "
	if c.IfNotExists {
		s += "IF NOT EXISTS "
	}
	s += c.Name
	if c.Authorization != "" {
		s += " AUTHORIZATION " + c.Authorization
	}
	return s
}

// CreateSequence is `CREATE SEQUENCE name [START WITH n] [INCREMENT BY n] ...`.
type CreateSequence struct {
	base
	Name      string
	StartWith *int64
	Increment *int64
	MinValue  *int64
	MaxValue  *int64
	Cycle     bool
}

func (c *CreateSequence) Kind() Kind             { return CREATE_SEQUENCE }
func (c *CreateSequence) IsQuery() bool          { return false }
func (c *CreateSequence) IsTransactional() bool  { return false }
func (c *CreateSequence) IsRetryable() bool      { return false }
func (c *CreateSequence) Dependencies() []string { return nil }
func (c *CreateSequence) PlanSQL(bool) string    { return "CREATE SEQUENCE " + c.Name }

// LinkedColumn describes one column of a CREATE LINKED TABLE's known shape,
// filled in by a metadata probe against the remote driver when
// internal/linked opens the table.
type LinkedColumn struct {
	Name string
	Type string
}

// CreateLinkedTable is the engine's escape hatch to a live external
// database: `CREATE LINKED TABLE name (driver, dsn, remote_table)`. The
// statement itself only records the connection parameters; internal/linked
// opens the driver and validates the remote table exists when it opens the
// table (Registry.Open), not when the statement is prepared.
type CreateLinkedTable struct {
	base
	Name        *TableName
	Driver      string // mysql, postgres, sqlserver, sqlite
	DSN         string
	RemoteTable string
	Columns     []LinkedColumn // not set by the parser; internal/linked keeps probed columns on its own Table
}

func (c *CreateLinkedTable) Kind() Kind             { return CREATE_LINKED_TABLE }
func (c *CreateLinkedTable) IsQuery() bool          { return false }
func (c *CreateLinkedTable) IsTransactional() bool  { return false }
func (c *CreateLinkedTable) IsRetryable() bool      { return false }
func (c *CreateLinkedTable) Dependencies() []string { return []string{c.Name.Name} }
func (c *CreateLinkedTable) PlanSQL(bool) string {
	return "CREATE LINKED TABLE " + c.Name.String() + " (" + c.Driver + ", " + c.RemoteTable + ")"
}

// lightweight long-tail CREATE forms: a name, a handful of typed fields, and
// the raw trailing text the parser didn't bother structuring further
// (spec.md §4.3's long tail of rarely-exercised CREATE variants).

type CreateDomain struct {
	base
	Name      string
	BaseType  string
	Check     Expr
	RawTail   string
}

func (c *CreateDomain) Kind() Kind             { return CREATE_DOMAIN }
func (c *CreateDomain) IsQuery() bool          { return false }
func (c *CreateDomain) IsTransactional() bool  { return false }
func (c *CreateDomain) IsRetryable() bool      { return false }
func (c *CreateDomain) Dependencies() []string { return nil }
func (c *CreateDomain) PlanSQL(bool) string    { return "CREATE DOMAIN " + c.Name + " AS " + c.BaseType }

type CreateConstant struct {
	base
	Name  string
	Type  string
	Value Expr
}

func (c *CreateConstant) Kind() Kind             { return CREATE_CONSTANT }
func (c *CreateConstant) IsQuery() bool          { return false }
func (c *CreateConstant) IsTransactional() bool  { return false }
func (c *CreateConstant) IsRetryable() bool      { return false }
func (c *CreateConstant) Dependencies() []string { return nil }
func (c *CreateConstant) PlanSQL(bool) string    { return "CREATE CONSTANT " + c.Name + " " + c.Type + " VALUE " + c.Value.String() }

type CreateRole struct {
	base
	Name string
}

func (c *CreateRole) Kind() Kind             { return CREATE_ROLE }
func (c *CreateRole) IsQuery() bool          { return false }
func (c *CreateRole) IsTransactional() bool  { return false }
func (c *CreateRole) IsRetryable() bool      { return false }
func (c *CreateRole) Dependencies() []string { return nil }
func (c *CreateRole) PlanSQL(bool) string    { return "CREATE ROLE " + c.Name }

type CreateUser struct {
	base
	Name     string
	Password string
	Admin    bool
}

func (c *CreateUser) Kind() Kind             { return CREATE_USER }
func (c *CreateUser) IsQuery() bool          { return false }
func (c *CreateUser) IsTransactional() bool  { return false }
func (c *CreateUser) IsRetryable() bool      { return false }
func (c *CreateUser) Dependencies() []string { return nil }
func (c *CreateUser) PlanSQL(bool) string    { return "CREATE USER " + c.Name }

type CreateTrigger struct {
	base
	Name    string
	Table   *TableName
	Timing  string // BEFORE, AFTER, INSTEAD OF
	Events  []string // INSERT, UPDATE, DELETE
	RawBody string
}

func (c *CreateTrigger) Kind() Kind             { return CREATE_TRIGGER }
func (c *CreateTrigger) IsQuery() bool          { return false }
func (c *CreateTrigger) IsTransactional() bool  { return false }
func (c *CreateTrigger) IsRetryable() bool      { return false }
func (c *CreateTrigger) Dependencies() []string { return []string{c.Table.Name} }
func (c *CreateTrigger) PlanSQL(bool) string {
	return "CREATE TRIGGER " + c.Name + " " + c.Timing + " " + strings.Join(c.Events, " OR ") + " ON " + c.Table.String()
}

type CreateSynonym struct {
	base
	Name   string
	Target *TableName
}

func (c *CreateSynonym) Kind() Kind             { return CREATE_SYNONYM }
func (c *CreateSynonym) IsQuery() bool          { return false }
func (c *CreateSynonym) IsTransactional() bool  { return false }
func (c *CreateSynonym) IsRetryable() bool      { return false }
func (c *CreateSynonym) Dependencies() []string { return []string{c.Target.Name} }
func (c *CreateSynonym) PlanSQL(bool) string    { return "CREATE SYNONYM " + c.Name + " FOR " + c.Target.String() }

type CreateAggregate struct {
	base
	Name      string
	ImplClass string
}

func (c *CreateAggregate) Kind() Kind             { return CREATE_AGGREGATE }
func (c *CreateAggregate) IsQuery() bool          { return false }
func (c *CreateAggregate) IsTransactional() bool  { return false }
func (c *CreateAggregate) IsRetryable() bool      { return false }
func (c *CreateAggregate) Dependencies() []string { return nil }
func (c *CreateAggregate) PlanSQL(bool) string    { return "CREATE AGGREGATE " + c.Name + " FOR " + c.ImplClass }

// DropObject is the generic shape of every `DROP <kind> [IF EXISTS] name
// [CASCADE]` statement that doesn't need bespoke fields (spec.md §4.3's DROP
// family).
type DropObject struct {
	base
	ObjectKind Kind // DROP_TABLE, DROP_VIEW, DROP_INDEX, ...
	Name       string
	IfExists   bool
	Cascade    bool
}

func (d *DropObject) Kind() Kind             { return d.ObjectKind }
func (d *DropObject) IsQuery() bool          { return false }
func (d *DropObject) IsTransactional() bool  { return false }
func (d *DropObject) IsRetryable() bool      { return false }
func (d *DropObject) Dependencies() []string { return []string{d.Name} }
func (d *DropObject) PlanSQL(bool) string {
	s := "DROP " + dropKeyword(d.ObjectKind) + " "
	if d.IfExists {
		s += "IF EXISTS "
	}
	s += d.Name
	if d.Cascade {
		s += " CASCADE"
	}
	return s
}

func dropKeyword(k Kind) string {
	switch k {
	case DROP_TABLE:
		return "TABLE"
	case DROP_VIEW:
		return "VIEW"
	case DROP_INDEX:
		return "INDEX"
	case DROP_SCHEMA:
		return "SCHEMA"
	case DROP_SEQUENCE:
		return "SEQUENCE"
	case DROP_CONSTANT:
		return "CONSTANT"
	case DROP_DOMAIN:
		return "DOMAIN"
	case DROP_ROLE:
		return "ROLE"
	case DROP_USER:
		return "USER"
	case DROP_ALIAS:
		return "ALIAS"
	case DROP_TRIGGER:
		return "TRIGGER"
	case DROP_SYNONYM:
		return "SYNONYM"
	case DROP_AGGREGATE:
		return "AGGREGATE"
	case DROP_MATERIALIZED_VIEW:
		return "MATERIALIZED VIEW"
	case DROP_LINKED_TABLE:
		return "LINKED TABLE"
	}
	return "OBJECT"
}

// AlterTable covers every `ALTER TABLE name <action>` form. Action carries
// the structured field; Raw carries the unparsed tail for the long-tail
// forms the grammar doesn't structure further (spec.md §4.3 "Key decisions
// and tie-breaks": bounded modeling of the ALTER family).
type AlterTable struct {
	base
	ActionKind Kind // ALTER_TABLE_ADD_COLUMN, ALTER_TABLE_ALTER_COLUMN, ...
	Table      *TableName
	AddColumn  *ColumnDef
	DropColumn string
	RenameTo   string
	AddConstraint *TableConstraint
	DropConstraint string
	Raw        string
}

func (a *AlterTable) Kind() Kind             { return a.ActionKind }
func (a *AlterTable) IsQuery() bool          { return false }
func (a *AlterTable) IsTransactional() bool  { return false }
func (a *AlterTable) IsRetryable() bool      { return false }
func (a *AlterTable) Dependencies() []string { return []string{a.Table.Name} }
func (a *AlterTable) PlanSQL(bool) string {
	prefix := "ALTER TABLE " + a.Table.String() + " "
	switch a.ActionKind {
	case ALTER_TABLE_ADD_COLUMN:
		return prefix + "ADD COLUMN " + a.AddColumn.String()
	case ALTER_TABLE_DROP_COLUMN:
		return prefix + "DROP COLUMN " + a.DropColumn
	case ALTER_TABLE_RENAME:
		return prefix + "RENAME TO " + a.RenameTo
	case ALTER_TABLE_ADD_CONSTRAINT:
		return prefix + "ADD CONSTRAINT " + a.AddConstraint.Kind
	case ALTER_TABLE_DROP_CONSTRAINT:
		return prefix + "DROP CONSTRAINT " + a.DropConstraint
	default:
		return prefix + a.Raw
	}
}

// AlterObject is the generic shape for ALTER VIEW/INDEX/SCHEMA/SEQUENCE/
// DOMAIN/USER, which carry a name and a raw tail rather than bespoke fields.
type AlterObject struct {
	base
	ObjectKind Kind
	Name       string
	Raw        string
}

func (a *AlterObject) Kind() Kind             { return a.ObjectKind }
func (a *AlterObject) IsQuery() bool          { return false }
func (a *AlterObject) IsTransactional() bool  { return false }
func (a *AlterObject) IsRetryable() bool      { return false }
func (a *AlterObject) Dependencies() []string { return []string{a.Name} }
func (a *AlterObject) PlanSQL(bool) string    { return "ALTER " + alterKeyword(a.ObjectKind) + " " + a.Name + " " + a.Raw }

func alterKeyword(k Kind) string {
	switch k {
	case ALTER_VIEW:
		return "VIEW"
	case ALTER_INDEX:
		return "INDEX"
	case ALTER_SCHEMA:
		return "SCHEMA"
	case ALTER_SEQUENCE:
		return "SEQUENCE"
	case ALTER_DOMAIN:
		return "DOMAIN"
	case ALTER_USER:
		return "USER"
	}
	return "OBJECT"
}
