package ast

import "strings"

// Expr is any scalar expression node produced by the grammar's expression
// precedence climb (spec.md §4.3 "Expressions").
type Expr interface {
	exprNode()
	String() string
}

// ColumnRef is a (possibly partially-qualified) column reference, up to the
// four dotted components spec.md §4.3 "Terms" allows:
// [catalog.][schema.]table.column.
type ColumnRef struct {
	Catalog, Schema, Table, Column string
}

func (*ColumnRef) exprNode() {}
func (c *ColumnRef) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{c.Catalog, c.Schema, c.Table, c.Column} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

// Literal wraps a materialized or deferred Value as an expression.
type Literal struct{ Value Value }

func (*Literal) exprNode() {}
func (l *Literal) String() string { return l.Value.String() }

// ParamRef is a reference to a bound parameter slot.
type ParamRef struct{ Param *Parameter }

func (*ParamRef) exprNode() {}
func (p *ParamRef) String() string {
	if p.Param.Index >= 0 {
		return "?"
	}
	return "?"
}

// UnaryExpr is a prefix operator application (+x, -x, NOT x).
type UnaryExpr struct {
	Op string
	X  Expr
}

func (*UnaryExpr) exprNode() {}
func (u *UnaryExpr) String() string { return u.Op + " " + u.X.String() }

// BinaryExpr covers every infix operator of spec.md §4.3's precedence
// table: OR, AND, comparisons, concatenation/regex, additive,
// multiplicative.
type BinaryExpr struct {
	Op   string
	L, R Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string { return "(" + b.L.String() + " " + b.Op + " " + b.R.String() + ")" }

// BetweenExpr is `x [NOT] BETWEEN low AND high`.
type BetweenExpr struct {
	X, Low, High Expr
	Not          bool
}

func (*BetweenExpr) exprNode() {}
func (b *BetweenExpr) String() string {
	neg := ""
	if b.Not {
		neg = "NOT "
	}
	return b.X.String() + " " + neg + "BETWEEN " + b.Low.String() + " AND " + b.High.String()
}

// InExpr is `x [NOT] IN (list)` or `x [NOT] IN (subquery)`.
type InExpr struct {
	X    Expr
	List []Expr
	Sub  SelectStatement
	Not  bool
}

func (*InExpr) exprNode() {}
func (e *InExpr) String() string {
	neg := ""
	if e.Not {
		neg = "NOT "
	}
	if e.Sub != nil {
		return e.X.String() + " " + neg + "IN (" + e.Sub.String() + ")"
	}
	return e.X.String() + " " + neg + "IN (" + joinExprs(e.List) + ")"
}

// IsExpr covers `IS [NOT] {NULL|TRUE|FALSE|UNKNOWN|DISTINCT FROM other}`.
type IsExpr struct {
	X     Expr
	What  string // NULL, TRUE, FALSE, UNKNOWN, DISTINCT FROM, OF(...)
	Other Expr   // for DISTINCT FROM
	Not   bool
}

func (*IsExpr) exprNode() {}
func (e *IsExpr) String() string {
	neg := ""
	if e.Not {
		neg = "NOT "
	}
	s := e.X.String() + " IS " + neg + e.What
	if e.Other != nil {
		s += " " + e.Other.String()
	}
	return s
}

// ExistsExpr is `[NOT] EXISTS (subquery)`.
type ExistsExpr struct {
	Sub SelectStatement
	Not bool
}

func (*ExistsExpr) exprNode() {}
func (e *ExistsExpr) String() string {
	neg := ""
	if e.Not {
		neg = "NOT "
	}
	return neg + "EXISTS (" + e.Sub.String() + ")"
}

// Subquery wraps a SelectStatement used as a scalar/row expression.
type Subquery struct{ Select SelectStatement }

func (*Subquery) exprNode() {}
func (s *Subquery) String() string { return "(" + s.Select.String() + ")" }

// CaseExpr models both simple (`CASE x WHEN ...`) and searched
// (`CASE WHEN cond ...`) forms; Operand is nil for the searched form.
type CaseExpr struct {
	Operand Expr
	Whens   []WhenClause
	Else    Expr
}

type WhenClause struct {
	Cond   Expr // comparison value (simple form) or boolean condition (searched form)
	Result Expr
}

func (*CaseExpr) exprNode() {}
func (c *CaseExpr) String() string {
	var b strings.Builder
	b.WriteString("CASE ")
	if c.Operand != nil {
		b.WriteString(c.Operand.String())
		b.WriteString(" ")
	}
	for _, w := range c.Whens {
		b.WriteString("WHEN ")
		b.WriteString(w.Cond.String())
		b.WriteString(" THEN ")
		b.WriteString(w.Result.String())
		b.WriteString(" ")
	}
	if c.Else != nil {
		b.WriteString("ELSE ")
		b.WriteString(c.Else.String())
		b.WriteString(" ")
	}
	b.WriteString("END")
	return b.String()
}

// CastExpr is `x::type` or `CAST(x AS type)`.
type CastExpr struct {
	X    Expr
	Type string
}

func (*CastExpr) exprNode() {}
func (c *CastExpr) String() string { return "CAST(" + c.X.String() + " AS " + c.Type + ")" }

// ArrayExpr is `ARRAY[...]`.
type ArrayExpr struct{ Elems []Expr }

func (*ArrayExpr) exprNode() {}
func (a *ArrayExpr) String() string { return "ARRAY[" + joinExprs(a.Elems) + "]" }

// RowExpr is `ROW(...)` or a bare parenthesized tuple.
type RowExpr struct{ Elems []Expr }

func (*RowExpr) exprNode() {}
func (r *RowExpr) String() string { return "ROW(" + joinExprs(r.Elems) + ")" }

// IndexExpr is `x[i]`, the array-get production.
type IndexExpr struct{ X, Index Expr }

func (*IndexExpr) exprNode() {}
func (i *IndexExpr) String() string { return i.X.String() + "[" + i.Index.String() + "]" }

// AtTimeZoneExpr is `x AT TIME ZONE tz` or `x AT LOCAL`.
type AtTimeZoneExpr struct {
	X     Expr
	Zone  Expr
	Local bool
}

func (*AtTimeZoneExpr) exprNode() {}
func (a *AtTimeZoneExpr) String() string {
	if a.Local {
		return a.X.String() + " AT LOCAL"
	}
	return a.X.String() + " AT TIME ZONE " + a.Zone.String()
}

// SequenceExpr is `NEXT VALUE FOR seq` / `CURRENT VALUE FOR seq`.
type SequenceExpr struct {
	Name string
	Next bool
}

func (*SequenceExpr) exprNode() {}
func (s *SequenceExpr) String() string {
	if s.Next {
		return "NEXT VALUE FOR " + s.Name
	}
	return "CURRENT VALUE FOR " + s.Name
}

// StarExpr is `*` or `table.*`, with an optional EXCEPT list.
type StarExpr struct {
	Table  string
	Except []string
}

func (*StarExpr) exprNode() {}
func (s *StarExpr) String() string {
	prefix := "*"
	if s.Table != "" {
		prefix = s.Table + ".*"
	}
	if len(s.Except) > 0 {
		prefix += " EXCEPT (" + strings.Join(s.Except, ", ") + ")"
	}
	return prefix
}

// NamedParamExpr is `@var := expr`.
type NamedParamExpr struct {
	Name string
	X    Expr
}

func (*NamedParamExpr) exprNode() {}
func (n *NamedParamExpr) String() string { return "@" + n.Name + " := " + n.X.String() }

// FuncCall covers plain, aggregate, and window function calls (spec.md
// §4.3 "Aggregate and window functions").
type FuncCall struct {
	Name     string
	Args     []Expr
	Distinct bool
	Star     bool // COUNT(*)

	// Aggregate extras
	WithinGroupOrderBy []OrderItem
	Separator          Expr // LISTAGG/STRING_AGG/GROUP_CONCAT separator
	OnOverflowError    bool
	NullHandling       string // "", "NULL ON NULL", "ABSENT ON NULL"
	WithUniqueKeys     bool

	// Window extras
	Over         *WindowSpec
	OverName     string // named-window reference
	FromFirst    bool
	FromLast     bool
	RespectNulls bool
	IgnoreNulls  bool
}

func (*FuncCall) exprNode() {}
func (f *FuncCall) String() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteString("(")
	if f.Distinct {
		b.WriteString("DISTINCT ")
	}
	if f.Star {
		b.WriteString("*")
	} else {
		b.WriteString(joinExprs(f.Args))
	}
	b.WriteString(")")
	if len(f.WithinGroupOrderBy) > 0 {
		b.WriteString(" WITHIN GROUP (ORDER BY ")
		b.WriteString(joinOrderItems(f.WithinGroupOrderBy))
		b.WriteString(")")
	}
	if f.Over != nil {
		b.WriteString(" OVER (")
		b.WriteString(f.Over.String())
		b.WriteString(")")
	} else if f.OverName != "" {
		b.WriteString(" OVER " + f.OverName)
	}
	return b.String()
}

// WindowSpec is `OVER (PARTITION BY ... ORDER BY ... frame)`.
type WindowSpec struct {
	Name        string // for WINDOW name AS (...)
	PartitionBy []Expr
	OrderBy     []OrderItem
	Frame       *FrameSpec
}

func (w *WindowSpec) String() string {
	var parts []string
	if len(w.PartitionBy) > 0 {
		parts = append(parts, "PARTITION BY "+joinExprs(w.PartitionBy))
	}
	if len(w.OrderBy) > 0 {
		parts = append(parts, "ORDER BY "+joinOrderItems(w.OrderBy))
	}
	if w.Frame != nil {
		parts = append(parts, w.Frame.String())
	}
	return strings.Join(parts, " ")
}

// FrameSpec is a window frame: {ROWS|RANGE|GROUPS} between bounds, with an
// optional EXCLUDE clause (spec.md §4.3).
type FrameSpec struct {
	Unit    string // ROWS, RANGE, GROUPS
	Start   FrameBound
	End     *FrameBound // nil for a single-bound frame
	Exclude string      // "", CURRENT ROW, GROUP, TIES, NO OTHERS
}

type FrameBound struct {
	Kind   string // UNBOUNDED_PRECEDING, PRECEDING, CURRENT_ROW, FOLLOWING, UNBOUNDED_FOLLOWING
	Offset Expr
}

func (f *FrameSpec) String() string {
	s := f.Unit + " "
	if f.End != nil {
		s += "BETWEEN " + f.Start.string() + " AND " + f.End.string()
	} else {
		s += f.Start.string()
	}
	if f.Exclude != "" {
		s += " EXCLUDE " + f.Exclude
	}
	return s
}

func (b FrameBound) string() string {
	switch b.Kind {
	case "UNBOUNDED_PRECEDING":
		return "UNBOUNDED PRECEDING"
	case "UNBOUNDED_FOLLOWING":
		return "UNBOUNDED FOLLOWING"
	case "CURRENT_ROW":
		return "CURRENT ROW"
	case "PRECEDING":
		return b.Offset.String() + " PRECEDING"
	case "FOLLOWING":
		return b.Offset.String() + " FOLLOWING"
	}
	return ""
}

// OrderItem is one ORDER BY (or WITHIN GROUP ORDER BY) term.
type OrderItem struct {
	Expr       Expr
	Desc       bool
	NullsFirst *bool // nil = unspecified
}

func joinExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func joinOrderItems(items []OrderItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		s := it.Expr.String()
		if it.Desc {
			s += " DESC"
		} else {
			s += " ASC"
		}
		if it.NullsFirst != nil {
			if *it.NullsFirst {
				s += " NULLS FIRST"
			} else {
				s += " NULLS LAST"
			}
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}
