package ast

import "strings"

// SelectStatement is the common interface over SELECT, set operations
// (UNION/EXCEPT/MINUS/INTERSECT), VALUES, and the bare TABLE shorthand —
// anything that can appear as a query body, a CTE definition, or a
// subquery.
type SelectStatement interface {
	Prepared
	Expr // a SelectStatement can always appear as a subquery expression
	selectNode()
	Limit() *LimitClause
}

// TableExpr is a FROM-clause element: a table name, a join, or a
// parenthesized/derived subquery.
type TableExpr interface {
	tableNode()
	String() string
}

// TableName is a (possibly dotted, up to catalog.schema.table) table
// reference with an optional alias.
type TableName struct {
	Catalog, Schema, Name, Alias string
}

func (*TableName) tableNode() {}
func (t *TableName) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.Catalog, t.Schema, t.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	s := strings.Join(parts, ".")
	if t.Alias != "" {
		s += " AS " + t.Alias
	}
	return s
}

// JoinExpr is any of INNER/LEFT/RIGHT/FULL OUTER/CROSS/NATURAL join. FULL
// OUTER parses into a JoinExpr like the others; nothing in this module
// rejects it.
type JoinExpr struct {
	Left, Right TableExpr
	Join        string // INNER, LEFT OUTER, RIGHT OUTER, FULL OUTER, CROSS, NATURAL
	On          Expr
	Using       []string
}

func (*JoinExpr) tableNode() {}
func (j *JoinExpr) String() string {
	s := j.Left.String() + " " + j.Join + " JOIN " + j.Right.String()
	if j.On != nil {
		s += " ON " + j.On.String()
	} else if len(j.Using) > 0 {
		s += " USING (" + strings.Join(j.Using, ", ") + ")"
	}
	return s
}

// SubqueryTable is a derived table: `(SELECT ...) AS alias`.
type SubqueryTable struct {
	Select SelectStatement
	Alias  string
}

func (*SubqueryTable) tableNode() {}
func (s *SubqueryTable) String() string {
	str := "(" + s.Select.String() + ")"
	if s.Alias != "" {
		str += " AS " + s.Alias
	}
	return str
}

// SelectExpr is one entry of the SELECT list: either a star or an aliased
// expression.
type SelectExpr interface {
	selectExprNode()
	String() string
}

type AliasedExpr struct {
	Expr Expr
	As   string
}

func (*AliasedExpr) selectExprNode() {}
func (a *AliasedExpr) String() string {
	if a.As != "" {
		return a.Expr.String() + " AS " + a.As
	}
	return a.Expr.String()
}

func (*StarExpr) selectExprNode() {}

// LimitClause unifies OFFSET/FETCH and the MySQL-style LIMIT form (spec.md
// §4.3 "Queries").
type LimitClause struct {
	Limit      Expr
	Offset     Expr
	Percent    bool
	WithTies   bool
	RowKeyword string // ROW or ROWS, cosmetic
}

// LockClause is the trailing FOR UPDATE/READ ONLY/FETCH ONLY clause.
type LockClause struct {
	Mode   string // UPDATE, READ ONLY, FETCH ONLY
	Of     []string
	NoWait bool
}

type NamedWindow struct {
	Name string
	Spec *WindowSpec
}

// With wraps any Prepared body in a (possibly recursive) set of common
// table expressions. spec.md §4.3: "WITH allows only SELECT/TABLE/VALUES/
// INSERT/UPDATE/MERGE/DELETE/CREATE TABLE as the inner statement"; the CTEs
// themselves are materialized as throwaway schema objects during the
// compile of the inner query and cleaned up in reverse creation order
// (internal/parser's parseWith does both, through Options.ShadowViews).
type With struct {
	base
	Recursive bool
	CTEs      []CTE
	Body      Prepared
}

type CTE struct {
	Name    string
	Columns []string
	Query   SelectStatement
}

func (w *With) Kind() Kind               { return w.Body.Kind() }
func (w *With) IsQuery() bool            { return w.Body.IsQuery() }
func (w *With) IsTransactional() bool    { return w.Body.IsTransactional() }
func (w *With) IsRetryable() bool        { return w.Body.IsRetryable() }
func (w *With) Dependencies() []string   { return w.Body.Dependencies() }
func (w *With) PlanSQL(quoteAll bool) string {
	var b strings.Builder
	b.WriteString("WITH ")
	if w.Recursive {
		b.WriteString("RECURSIVE ")
	}
	for i, c := range w.CTEs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.Name)
		if len(c.Columns) > 0 {
			b.WriteString("(" + strings.Join(c.Columns, ", ") + ")")
		}
		b.WriteString(" AS (" + c.Query.String() + ")")
	}
	b.WriteString(" ")
	b.WriteString(w.Body.PlanSQL(quoteAll))
	return b.String()
}

// Select is the core query form.
type Select struct {
	base
	With        *With // nested WITH, rare but legal (WITH inside a derived table)
	Distinct    bool
	DistinctOn  []Expr
	SelectExprs []SelectExpr
	From        []TableExpr
	Where       Expr
	GroupBy     []Expr
	Having      Expr
	Windows     []NamedWindow
	Qualify     Expr
	OrderBy     []OrderItem
	LimitClause *LimitClause
	Lock        *LockClause
}

func (*Select) exprNode()   {}
func (*Select) selectNode() {}
func (s *Select) Kind() Kind             { return SELECT }
func (s *Select) IsQuery() bool          { return true }
func (s *Select) IsTransactional() bool  { return true }
func (s *Select) IsRetryable() bool      { return false }
func (s *Select) Limit() *LimitClause    { return s.LimitClause }
func (s *Select) Dependencies() []string {
	var deps []string
	for _, t := range s.From {
		collectTableNames(t, &deps)
	}
	return deps
}

func collectTableNames(t TableExpr, out *[]string) {
	switch v := t.(type) {
	case *TableName:
		*out = append(*out, v.Name)
	case *JoinExpr:
		collectTableNames(v.Left, out)
		collectTableNames(v.Right, out)
	}
}

func (s *Select) String() string             { return s.PlanSQL(false) }
func (s *Select) PlanSQL(quoteAll bool) string {
	var b strings.Builder
	if s.With != nil {
		return s.With.PlanSQL(quoteAll)
	}
	b.WriteString("SELECT ")
	if s.Distinct {
		b.WriteString("DISTINCT ")
	}
	exprs := make([]string, len(s.SelectExprs))
	for i, e := range s.SelectExprs {
		exprs[i] = e.String()
	}
	b.WriteString(strings.Join(exprs, ", "))
	if len(s.From) > 0 {
		froms := make([]string, len(s.From))
		for i, f := range s.From {
			froms[i] = f.String()
		}
		b.WriteString(" FROM " + strings.Join(froms, ", "))
	}
	if s.Where != nil {
		b.WriteString(" WHERE " + s.Where.String())
	}
	if len(s.GroupBy) > 0 {
		b.WriteString(" GROUP BY " + joinExprs(s.GroupBy))
	}
	if s.Having != nil {
		b.WriteString(" HAVING " + s.Having.String())
	}
	if len(s.OrderBy) > 0 {
		b.WriteString(" ORDER BY " + joinOrderItems(s.OrderBy))
	}
	if s.LimitClause != nil && s.LimitClause.Limit != nil {
		b.WriteString(" LIMIT " + s.LimitClause.Limit.String())
	}
	return b.String()
}

// SetOperation is UNION/EXCEPT/MINUS/INTERSECT between two query bodies.
// spec.md §4.3 precedence: INTERSECT binds tighter than UNION/EXCEPT.
type SetOperation struct {
	base
	Left, Right SelectStatement
	Op          string // UNION, UNION ALL, UNION DISTINCT, EXCEPT, MINUS, INTERSECT
	OrderBy     []OrderItem
	LimitClause *LimitClause
}

func (*SetOperation) exprNode()   {}
func (*SetOperation) selectNode() {}
func (s *SetOperation) Kind() Kind            { return SELECT }
func (s *SetOperation) IsQuery() bool         { return true }
func (s *SetOperation) IsTransactional() bool { return true }
func (s *SetOperation) IsRetryable() bool     { return false }
func (s *SetOperation) Limit() *LimitClause   { return s.LimitClause }
func (s *SetOperation) Dependencies() []string {
	return append(s.Left.(interface{ Dependencies() []string }).Dependencies(),
		s.Right.(interface{ Dependencies() []string }).Dependencies()...)
}
func (s *SetOperation) String() string { return s.PlanSQL(false) }
func (s *SetOperation) PlanSQL(quoteAll bool) string {
	return "(" + s.Left.String() + ") " + s.Op + " (" + s.Right.String() + ")"
}

// Values is a bare VALUES(...) [, (...)]* statement, usable standalone or
// inside a CTE/subquery.
type Values struct {
	base
	Rows        [][]Expr
	LimitClause *LimitClause
}

func (*Values) exprNode()   {}
func (*Values) selectNode() {}
func (v *Values) Kind() Kind             { return VALUES }
func (v *Values) IsQuery() bool          { return true }
func (v *Values) IsTransactional() bool  { return true }
func (v *Values) IsRetryable() bool      { return false }
func (v *Values) Limit() *LimitClause    { return v.LimitClause }
func (v *Values) Dependencies() []string { return nil }
func (v *Values) String() string         { return v.PlanSQL(false) }
func (v *Values) PlanSQL(bool) string {
	rows := make([]string, len(v.Rows))
	for i, r := range v.Rows {
		rows[i] = "(" + joinExprs(r) + ")"
	}
	return "VALUES " + strings.Join(rows, ", ")
}

// TableStmt is the `TABLE name` shorthand for `SELECT * FROM name`.
type TableStmt struct {
	base
	Name        *TableName
	LimitClause *LimitClause
}

func (*TableStmt) exprNode()   {}
func (*TableStmt) selectNode() {}
func (t *TableStmt) Kind() Kind             { return TABLE }
func (t *TableStmt) IsQuery() bool          { return true }
func (t *TableStmt) IsTransactional() bool  { return true }
func (t *TableStmt) IsRetryable() bool      { return false }
func (t *TableStmt) Limit() *LimitClause    { return t.LimitClause }
func (t *TableStmt) Dependencies() []string { return []string{t.Name.Name} }
func (t *TableStmt) String() string         { return t.PlanSQL(false) }
func (t *TableStmt) PlanSQL(bool) string    { return "TABLE " + t.Name.String() }
