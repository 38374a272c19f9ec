package ast

import "strings"

// Insert is `INSERT INTO table [(cols)] {VALUES (...)+ | query}`.
type Insert struct {
	base
	Table     *TableName
	Columns   []string
	Rows      [][]Expr        // literal/parameter rows
	Query     SelectStatement // INSERT ... SELECT
	OnConflict string         // raw trailing ON CONFLICT/ON DUPLICATE KEY clause, dialect-specific
}

func (i *Insert) Kind() Kind             { return INSERT }
func (i *Insert) IsQuery() bool          { return false }
func (i *Insert) IsTransactional() bool  { return true }
func (i *Insert) IsRetryable() bool      { return true }
func (i *Insert) Dependencies() []string { return []string{i.Table.Name} }
func (i *Insert) PlanSQL(bool) string {
	var b strings.Builder
	b.WriteString("INSERT INTO " + i.Table.String())
	if len(i.Columns) > 0 {
		b.WriteString(" (" + strings.Join(i.Columns, ", ") + ")")
	}
	if i.Query != nil {
		b.WriteString(" " + i.Query.String())
		return b.String()
	}
	b.WriteString(" VALUES ")
	rows := make([]string, len(i.Rows))
	for idx, r := range i.Rows {
		rows[idx] = "(" + joinExprs(r) + ")"
	}
	b.WriteString(strings.Join(rows, ", "))
	if i.OnConflict != "" {
		b.WriteString(" " + i.OnConflict)
	}
	return b.String()
}

// Replace is the dialect-specific `REPLACE INTO ...` form; structurally
// identical to Insert but with upsert-on-conflict semantics and its own
// Kind code (spec.md §9 Open Questions: kept distinct from NO_OPERATION).
type Replace struct {
	base
	Table   *TableName
	Columns []string
	Rows    [][]Expr
	Query   SelectStatement
}

func (r *Replace) Kind() Kind             { return REPLACE }
func (r *Replace) IsQuery() bool          { return false }
func (r *Replace) IsTransactional() bool  { return true }
func (r *Replace) IsRetryable() bool      { return true }
func (r *Replace) Dependencies() []string { return []string{r.Table.Name} }
func (r *Replace) PlanSQL(bool) string {
	var b strings.Builder
	b.WriteString("REPLACE INTO " + r.Table.String())
	if len(r.Columns) > 0 {
		b.WriteString(" (" + strings.Join(r.Columns, ", ") + ")")
	}
	if r.Query != nil {
		b.WriteString(" " + r.Query.String())
		return b.String()
	}
	rows := make([]string, len(r.Rows))
	for idx, row := range r.Rows {
		rows[idx] = "(" + joinExprs(row) + ")"
	}
	b.WriteString(" VALUES " + strings.Join(rows, ", "))
	return b.String()
}

// Assignment is `col = expr` in SET/UPDATE clauses.
type Assignment struct {
	Column string
	Value  Expr
}

// Update is `UPDATE table SET col=expr, ... [WHERE ...]`.
type Update struct {
	base
	Table   *TableName
	Set     []Assignment
	Where   Expr
	OrderBy []OrderItem
	Limit   Expr
}

func (u *Update) Kind() Kind             { return UPDATE }
func (u *Update) IsQuery() bool          { return false }
func (u *Update) IsTransactional() bool  { return true }
func (u *Update) IsRetryable() bool      { return true }
func (u *Update) Dependencies() []string { return []string{u.Table.Name} }
func (u *Update) PlanSQL(bool) string {
	sets := make([]string, len(u.Set))
	for i, s := range u.Set {
		sets[i] = s.Column + " = " + s.Value.String()
	}
	out := "UPDATE " + u.Table.String() + " SET " + strings.Join(sets, ", ")
	if u.Where != nil {
		out += " WHERE " + u.Where.String()
	}
	return out
}

// Delete is `DELETE FROM table [WHERE ...]`.
type Delete struct {
	base
	Table   *TableName
	Where   Expr
	OrderBy []OrderItem
	Limit   Expr
}

func (d *Delete) Kind() Kind             { return DELETE }
func (d *Delete) IsQuery() bool          { return false }
func (d *Delete) IsTransactional() bool  { return true }
func (d *Delete) IsRetryable() bool      { return true }
func (d *Delete) Dependencies() []string { return []string{d.Table.Name} }
func (d *Delete) PlanSQL(bool) string {
	out := "DELETE FROM " + d.Table.String()
	if d.Where != nil {
		out += " WHERE " + d.Where.String()
	}
	return out
}

// MergeAction is one WHEN MATCHED/NOT MATCHED THEN clause.
type MergeAction struct {
	Matched bool
	Guard   Expr // optional AND guard
	// exactly one of the following is set
	UpdateSet []Assignment
	Delete    bool
	InsertCols []string
	InsertVals []Expr
}

// Merge is `MERGE INTO target USING source ON cond WHEN ... THEN ...`.
// Source is any TableExpr; a subquery source stays a *SubqueryTable and is
// not materialized as a view, by the parser or elsewhere.
type Merge struct {
	base
	Target  *TableName
	Source  TableExpr
	On      Expr
	Actions []MergeAction
}

func (m *Merge) Kind() Kind             { return MERGE }
func (m *Merge) IsQuery() bool          { return false }
func (m *Merge) IsTransactional() bool  { return true }
func (m *Merge) IsRetryable() bool      { return true }
func (m *Merge) Dependencies() []string { return []string{m.Target.Name} }
func (m *Merge) PlanSQL(bool) string {
	out := "MERGE INTO " + m.Target.String() + " USING " + m.Source.String() + " ON " + m.On.String()
	for _, a := range m.Actions {
		if a.Matched {
			out += " WHEN MATCHED"
		} else {
			out += " WHEN NOT MATCHED"
		}
		if a.Guard != nil {
			out += " AND " + a.Guard.String()
		}
		switch {
		case a.Delete:
			out += " THEN DELETE"
		case a.UpdateSet != nil:
			sets := make([]string, len(a.UpdateSet))
			for i, s := range a.UpdateSet {
				sets[i] = s.Column + " = " + s.Value.String()
			}
			out += " THEN UPDATE SET " + strings.Join(sets, ", ")
		default:
			out += " THEN INSERT (" + strings.Join(a.InsertCols, ", ") + ") VALUES (" + joinExprs(a.InsertVals) + ")"
		}
	}
	return out
}
