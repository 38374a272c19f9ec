package parser

import (
	"strings"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/dberr"
	"github.com/quilldb/quill/internal/token"
)

// parseSelectish parses anything that can stand where a query body is
// expected: SELECT, a set operation chain over SELECT/VALUES/TABLE, a bare
// VALUES, or TABLE name (spec.md §4.3 "Statements": "SELECT / TABLE /
// VALUES / WITH").
//
// It owns one parameter-scope frame for the Query it produces (spec.md §4.2
// "parameter-scope-push / pop", §8 "Parameter-scope isolation"): every
// parameter bound while parsing this query's own clauses, plus everything
// merged up from nested subqueries parsed along the way, ends up in this
// Query's own Parameters() and is also folded into whatever scope encloses
// it — so a scalar subquery inside a SELECT's select-list sees only its own
// parameter while the enclosing SELECT sees both.
func (g *grammar) parseSelectish() (ast.SelectStatement, error) {
	g.pushParamScope()
	left, err := g.parseSelectishPrimary()
	if err != nil {
		return nil, err
	}
	result, err := g.parseSetOpTail(left)
	if err != nil {
		return nil, err
	}
	params, err := g.popParamScopeMergeUp()
	if err != nil {
		return nil, err
	}
	if b, ok := result.(ast.Binder); ok {
		b.Bind(params, g.epoch)
	}
	return result, nil
}

// tryParseSelectish attempts parseSelectish but only commits if the next
// token actually starts a query body; used by parenthesized contexts
// (subqueries vs. plain parenthesized expressions) where backtracking would
// otherwise be needed. Because the fast/reparse two-pass model already
// tolerates a full reparse on error, this just checks the lookahead kind
// instead of trying and rewinding.
func (g *grammar) tryParseSelectish() (ast.SelectStatement, error) {
	if !g.startsSelectish() {
		return nil, nil
	}
	return g.parseSelectish()
}

func (g *grammar) startsSelectish() bool {
	switch g.cur().Kind {
	case token.SELECT, token.VALUES, token.TABLE, token.WITH:
		return !g.cur().Quoted
	}
	return false
}

func (g *grammar) parseSelectishPrimary() (ast.SelectStatement, error) {
	switch {
	case g.isKind(token.WITH):
		w, err := g.parseWith()
		if err != nil {
			return nil, err
		}
		sel, ok := w.Body.(ast.SelectStatement)
		if !ok {
			return nil, g.errorf(dberr.Syntax, "WITH body is not a query")
		}
		return sel, nil
	case g.accept(token.VALUES):
		return g.parseValuesBody()
	case g.accept(token.TABLE):
		return g.parseTableStmtBody()
	case g.accept(token.LPAREN):
		inner, err := g.parseSelectish()
		if err != nil {
			return nil, err
		}
		if _, err := g.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case g.accept(token.SELECT):
		return g.parseSelectBody()
	}
	return nil, g.syntaxError()
}

// parseSetOpTail consumes a chain of UNION/EXCEPT/MINUS/INTERSECT
// (spec.md §4.3 "precedence: INTERSECT binds tighter than UNION/EXCEPT").
func (g *grammar) parseSetOpTail(left ast.SelectStatement) (ast.SelectStatement, error) {
	left, err := g.parseIntersectTail(left)
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch {
		case g.accept(token.UNION):
			op = "UNION"
			if g.accept(token.ALL) {
				op = "UNION ALL"
			} else if g.accept(token.DISTINCT) {
				op = "UNION DISTINCT"
			}
		case g.accept(token.EXCEPT):
			op = "EXCEPT"
		case g.isKind(token.MINUS_KW):
			g.advance()
			op = "MINUS"
		default:
			return left, nil
		}
		right, err := g.parseSelectishPrimary()
		if err != nil {
			return nil, err
		}
		right, err = g.parseIntersectTail(right)
		if err != nil {
			return nil, err
		}
		left = &ast.SetOperation{Left: left, Right: right, Op: op}
	}
}

func (g *grammar) parseIntersectTail(left ast.SelectStatement) (ast.SelectStatement, error) {
	for g.accept(token.INTERSECT) {
		right, err := g.parseSelectishPrimary()
		if err != nil {
			return nil, err
		}
		left = &ast.SetOperation{Left: left, Right: right, Op: "INTERSECT"}
	}
	return left, nil
}

// parseWith parses `WITH [RECURSIVE] name(cols) AS (query), ... body`
// (spec.md §4.3 "CTE views are materialized as throwaway schema objects").
// Each CTE is registered as a shadow view with the catalog as soon as its
// query is parsed, so later CTEs and the body resolve its name the same
// way they would a real view; every shadow view created here is dropped
// again, in reverse creation order, once the body is fully parsed or the
// parse fails partway through (spec.md §4.3 "then cleaned up in reverse
// creation order").
func (g *grammar) parseWith() (*ast.With, error) {
	if _, err := g.expect(token.WITH); err != nil {
		return nil, err
	}
	w := &ast.With{}
	w.Recursive = g.accept(token.RECURSIVE)
	var created []string
	defer func() { g.dropShadowViews(created) }()
	for {
		name, err := g.parseIdent()
		if err != nil {
			return nil, err
		}
		cte := ast.CTE{Name: name}
		if g.accept(token.LPAREN) {
			for {
				col, err := g.parseIdent()
				if err != nil {
					return nil, err
				}
				cte.Columns = append(cte.Columns, col)
				if !g.accept(token.COMMA) {
					break
				}
			}
			if _, err := g.expect(token.RPAREN); err != nil {
				return nil, err
			}
		}
		if _, err := g.expect(token.AS); err != nil {
			return nil, err
		}
		if _, err := g.expect(token.LPAREN); err != nil {
			return nil, err
		}
		q, err := g.parseSelectish()
		if err != nil {
			return nil, err
		}
		if _, err := g.expect(token.RPAREN); err != nil {
			return nil, err
		}
		cte.Query = q
		w.CTEs = append(w.CTEs, cte)
		if g.shadowViews != nil {
			if err := g.shadowViews.CreateShadowView(name, q); err != nil {
				return nil, err
			}
			created = append(created, name)
		}
		if !g.accept(token.COMMA) {
			break
		}
	}
	body, err := g.parseWithBody()
	if err != nil {
		return nil, err
	}
	w.Body = body
	return w, nil
}

// dropShadowViews tears down the shadow views parseWith created, in
// reverse creation order, ignoring individual failures: a catalog that
// never finished creating one of them (parse failed partway through) may
// legitimately reject dropping it, and the parse error itself is what the
// caller needs to see, not a cleanup error.
func (g *grammar) dropShadowViews(names []string) {
	if g.shadowViews == nil {
		return
	}
	for i := len(names) - 1; i >= 0; i-- {
		g.shadowViews.DropShadowView(names[i])
	}
}

// parseWithBody enforces spec.md §4.3 "WITH allows only SELECT/TABLE/
// VALUES/INSERT/UPDATE/MERGE/DELETE/CREATE TABLE as the inner statement;
// anything else is rejected."
func (g *grammar) parseWithBody() (ast.Prepared, error) {
	switch {
	case g.startsSelectish():
		return g.parseSelectish()
	case g.isKind(token.INSERT):
		return g.parseInsert()
	case g.isKind(token.UPDATE):
		return g.parseUpdate()
	case g.isKind(token.MERGE):
		return g.parseMerge()
	case g.isKind(token.DELETE):
		return g.parseDelete()
	case g.acceptSeq(token.CREATE, token.TABLE):
		return g.parseCreateTableTail(false)
	}
	return nil, g.errorf(dberr.UnsupportedFeature, "WITH body must be SELECT/TABLE/VALUES/INSERT/UPDATE/MERGE/DELETE/CREATE TABLE")
}

func (g *grammar) parseValuesBody() (ast.SelectStatement, error) {
	rows, err := g.parseValuesRows()
	if err != nil {
		return nil, err
	}
	v := &ast.Values{Rows: rows}
	lim, err := g.parseOptionalLimitClause()
	if err != nil {
		return nil, err
	}
	v.LimitClause = lim
	return v, nil
}

func (g *grammar) parseValuesRows() ([][]ast.Expr, error) {
	var rows [][]ast.Expr
	for {
		if _, err := g.expect(token.LPAREN); err != nil {
			return nil, err
		}
		var row []ast.Expr
		for {
			e, err := g.parseExpr()
			if err != nil {
				return nil, err
			}
			row = append(row, e)
			if !g.accept(token.COMMA) {
				break
			}
		}
		if _, err := g.expect(token.RPAREN); err != nil {
			return nil, err
		}
		rows = append(rows, row)
		if !g.accept(token.COMMA) {
			break
		}
	}
	return rows, nil
}

func (g *grammar) parseTableStmtBody() (ast.SelectStatement, error) {
	name, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	t := &ast.TableStmt{Name: name}
	lim, err := g.parseOptionalLimitClause()
	if err != nil {
		return nil, err
	}
	t.LimitClause = lim
	return t, nil
}

// parseSelectBody parses everything after the SELECT keyword itself.
func (g *grammar) parseSelectBody() (ast.SelectStatement, error) {
	s := &ast.Select{}
	if g.accept(token.DISTINCT) {
		s.Distinct = true
		if g.accept(token.ON) {
			if _, err := g.expect(token.LPAREN); err != nil {
				return nil, err
			}
			for {
				e, err := g.parseExpr()
				if err != nil {
					return nil, err
				}
				s.DistinctOn = append(s.DistinctOn, e)
				if !g.accept(token.COMMA) {
					break
				}
			}
			if _, err := g.expect(token.RPAREN); err != nil {
				return nil, err
			}
		}
	} else {
		g.accept(token.ALL)
	}

	exprs, err := g.parseSelectExprs()
	if err != nil {
		return nil, err
	}
	s.SelectExprs = exprs

	if g.accept(token.FROM) {
		from, err := g.parseFromList()
		if err != nil {
			return nil, err
		}
		s.From = from
	}
	if g.accept(token.WHERE) {
		w, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		s.Where = w
	}
	if g.accept(token.GROUP) {
		if _, err := g.expect(token.BY); err != nil {
			return nil, err
		}
		if !g.startsClauseBoundary() {
			for {
				e, err := g.parseExpr()
				if err != nil {
					return nil, err
				}
				s.GroupBy = append(s.GroupBy, e)
				if !g.accept(token.COMMA) {
					break
				}
			}
		}
	}
	if g.accept(token.HAVING) {
		h, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		s.Having = h
	}
	if g.accept(token.WINDOW) {
		for {
			name, err := g.parseIdent()
			if err != nil {
				return nil, err
			}
			if _, err := g.expect(token.AS); err != nil {
				return nil, err
			}
			if _, err := g.expect(token.LPAREN); err != nil {
				return nil, err
			}
			spec, err := g.parseWindowSpecBody()
			if err != nil {
				return nil, err
			}
			s.Windows = append(s.Windows, ast.NamedWindow{Name: name, Spec: spec})
			if !g.accept(token.COMMA) {
				break
			}
		}
	}
	if g.accept(token.QUALIFY) {
		q, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		s.Qualify = q
	}
	if g.accept(token.ORDER) {
		if _, err := g.expect(token.BY); err != nil {
			return nil, err
		}
		items, err := g.parseOrderByItems()
		if err != nil {
			return nil, err
		}
		s.OrderBy = items
	}
	lim, err := g.parseOptionalLimitClause()
	if err != nil {
		return nil, err
	}
	s.LimitClause = lim

	if g.accept(token.FOR) {
		lock, err := g.parseLockClause()
		if err != nil {
			return nil, err
		}
		s.Lock = lock
	}
	return s, nil
}

// startsClauseBoundary reports whether the next token begins a clause that
// can immediately follow an (optionally empty) GROUP BY list, matching
// spec.md §4.3 "GROUP BY (including empty ... lists)".
func (g *grammar) startsClauseBoundary() bool {
	switch g.cur().Kind {
	case token.HAVING, token.WINDOW, token.QUALIFY, token.ORDER, token.LIMIT,
		token.OFFSET, token.FETCH, token.FOR, token.UNION, token.EXCEPT,
		token.MINUS_KW, token.INTERSECT, token.RPAREN, token.SEMICOLON, token.EOF:
		return true
	}
	return false
}

func (g *grammar) parseSelectExprs() ([]ast.SelectExpr, error) {
	var out []ast.SelectExpr
	for {
		se, err := g.parseSelectExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, se)
		if !g.accept(token.COMMA) {
			break
		}
	}
	return out, nil
}

func (g *grammar) parseSelectExpr() (ast.SelectExpr, error) {
	if g.isKind(token.STAR) {
		star, err := g.parseStarTerm("")
		if err != nil {
			return nil, err
		}
		return star.(*ast.StarExpr), nil
	}
	e, err := g.parseExpr()
	if err != nil {
		return nil, err
	}
	if se, ok := e.(ast.SelectExpr); ok {
		if _, isAliased := se.(*ast.AliasedExpr); !isAliased {
			if alias, ok2 := g.tryParseAlias(); ok2 {
				return &ast.AliasedExpr{Expr: e, As: alias}, nil
			}
			return se, nil
		}
	}
	if alias, ok := g.tryParseAlias(); ok {
		return &ast.AliasedExpr{Expr: e, As: alias}, nil
	}
	return &ast.AliasedExpr{Expr: e}, nil
}

func (g *grammar) tryParseAlias() (string, bool) {
	if g.accept(token.AS) {
		name, err := g.parseIdent()
		if err != nil {
			return "", false
		}
		return name, true
	}
	if g.isKind(token.IDENT) || g.cur().Quoted {
		name, err := g.parseIdent()
		if err != nil {
			return "", false
		}
		return name, true
	}
	return "", false
}

func (g *grammar) parseFromList() ([]ast.TableExpr, error) {
	var out []ast.TableExpr
	for {
		t, err := g.parseTableExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if !g.accept(token.COMMA) {
			break
		}
	}
	return out, nil
}

// parseTableExpr covers joins (including NATURAL/CROSS prefixes),
// parenthesized derived tables, and plain table names (spec.md §4.3
// "Queries": "FROM with nested joins").
func (g *grammar) parseTableExpr() (ast.TableExpr, error) {
	left, err := g.parseTablePrimary()
	if err != nil {
		return nil, err
	}
	for {
		natural := g.accept(token.NATURAL)
		var joinKind string
		switch {
		case g.accept(token.INNER):
			joinKind = "INNER"
			g.expectOptional(token.JOIN)
		case g.accept(token.LEFT):
			joinKind = "LEFT OUTER"
			g.accept(token.OUTER)
			g.expectOptional(token.JOIN)
		case g.accept(token.RIGHT):
			joinKind = "RIGHT OUTER"
			g.accept(token.OUTER)
			g.expectOptional(token.JOIN)
		case g.accept(token.FULL):
			joinKind = "FULL OUTER"
			g.accept(token.OUTER)
			g.expectOptional(token.JOIN)
		case g.accept(token.CROSS):
			joinKind = "CROSS"
			g.expectOptional(token.JOIN)
		case g.accept(token.JOIN):
			joinKind = "INNER"
		case natural:
			g.addExpected(token.JOIN.String())
			return nil, g.syntaxError()
		default:
			return left, nil
		}
		if natural {
			joinKind = "NATURAL " + joinKind
		}
		right, err := g.parseTablePrimary()
		if err != nil {
			return nil, err
		}
		j := &ast.JoinExpr{Left: left, Right: right, Join: joinKind}
		if !natural {
			switch {
			case g.accept(token.ON):
				on, err := g.parseExpr()
				if err != nil {
					return nil, err
				}
				j.On = on
			case g.accept(token.USING):
				if _, err := g.expect(token.LPAREN); err != nil {
					return nil, err
				}
				for {
					col, err := g.parseIdent()
					if err != nil {
						return nil, err
					}
					j.Using = append(j.Using, col)
					if !g.accept(token.COMMA) {
						break
					}
				}
				if _, err := g.expect(token.RPAREN); err != nil {
					return nil, err
				}
			}
		}
		left = j
	}
}

func (g *grammar) expectOptional(k token.Kind) {
	g.accept(k)
}

func (g *grammar) parseTablePrimary() (ast.TableExpr, error) {
	if g.accept(token.LPAREN) {
		sel, err := g.parseSelectish()
		if err != nil {
			return nil, err
		}
		if _, err := g.expect(token.RPAREN); err != nil {
			return nil, err
		}
		st := &ast.SubqueryTable{Select: sel}
		if alias, ok := g.tryParseAlias(); ok {
			st.Alias = alias
		}
		return st, nil
	}
	name, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	if alias, ok := g.tryParseAlias(); ok {
		name.Alias = alias
	}
	return name, nil
}

// parseTableName reads up to the four dotted components spec.md §4.3
// "Terms" allows, here limited to the three schema-qualification levels a
// table reference uses ([catalog.][schema.]table).
func (g *grammar) parseTableName() (*ast.TableName, error) {
	first, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	parts := []string{first}
	for g.accept(token.DOT) {
		p, err := g.parseIdent()
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	t := &ast.TableName{}
	switch len(parts) {
	case 1:
		t.Name = parts[0]
	case 2:
		t.Schema, t.Name = parts[0], parts[1]
	default:
		t.Catalog, t.Schema, t.Name = parts[0], parts[1], parts[2]
	}
	return t, nil
}

func (g *grammar) parseOrderByItems() ([]ast.OrderItem, error) {
	var items []ast.OrderItem
	for {
		e, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		it := ast.OrderItem{Expr: e}
		switch {
		case g.accept(token.ASC):
		case g.accept(token.DESC):
			it.Desc = true
		}
		if g.accept(token.NULLS) {
			switch {
			case g.accept(token.FIRST):
				v := true
				it.NullsFirst = &v
			case g.accept(token.LAST):
				v := false
				it.NullsFirst = &v
			}
		}
		items = append(items, it)
		if !g.accept(token.COMMA) {
			break
		}
	}
	return items, nil
}

// parseOptionalLimitClause unifies MySQL-style LIMIT and the standard
// OFFSET/FETCH forms (spec.md §4.3 "Queries").
func (g *grammar) parseOptionalLimitClause() (*ast.LimitClause, error) {
	lc := &ast.LimitClause{}
	found := false
	if g.accept(token.LIMIT) {
		found = true
		n, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		lc.Limit = n
		if g.accept(token.COMMA) {
			off := lc.Limit
			n2, err := g.parseExpr()
			if err != nil {
				return nil, err
			}
			lc.Offset = off
			lc.Limit = n2
		} else if g.accept(token.OFFSET) {
			off, err := g.parseExpr()
			if err != nil {
				return nil, err
			}
			lc.Offset = off
		}
		return lc, nil
	}
	if g.accept(token.OFFSET) {
		found = true
		off, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		lc.Offset = off
		g.accept(token.ROW)
		g.accept(token.ROWS)
	}
	if g.accept(token.FETCH) {
		found = true
		if !g.accept(token.FIRST) {
			if _, err := g.expect(token.NEXT); err != nil {
				return nil, err
			}
		}
		if !g.isKind(token.ROW) && !g.isKind(token.ROWS) {
			n, err := g.parseExpr()
			if err != nil {
				return nil, err
			}
			lc.Limit = n
			if g.isKind(token.IDENT) && strings.EqualFold(g.cur().Ident, "PERCENT") {
				g.advance()
				lc.Percent = true
			}
		}
		switch {
		case g.accept(token.ROW):
			lc.RowKeyword = "ROW"
		case g.accept(token.ROWS):
			lc.RowKeyword = "ROWS"
		}
		switch {
		case g.accept(token.ONLY):
		case g.acceptSeq(token.WITH, token.TIES):
			lc.WithTies = true
		}
	}
	if !found {
		return nil, nil
	}
	return lc, nil
}

func (g *grammar) parseLockClause() (*ast.LockClause, error) {
	lc := &ast.LockClause{}
	switch {
	case g.accept(token.UPDATE):
		lc.Mode = "UPDATE"
		if g.accept(token.OF) {
		}
		if g.accept(token.NOWAIT) {
			lc.NoWait = true
		}
	case g.acceptSeq(token.READ, token.ONLY):
		lc.Mode = "READ ONLY"
	case g.acceptSeq(token.FETCH, token.ONLY):
		lc.Mode = "FETCH ONLY"
	default:
		return nil, g.syntaxError()
	}
	return lc, nil
}

func (g *grammar) parseWindowSpecBody() (*ast.WindowSpec, error) {
	spec := &ast.WindowSpec{}
	if g.accept(token.PARTITION) {
		if _, err := g.expect(token.BY); err != nil {
			return nil, err
		}
		for {
			e, err := g.parseExpr()
			if err != nil {
				return nil, err
			}
			spec.PartitionBy = append(spec.PartitionBy, e)
			if !g.accept(token.COMMA) {
				break
			}
		}
	}
	if g.accept(token.ORDER) {
		if _, err := g.expect(token.BY); err != nil {
			return nil, err
		}
		items, err := g.parseOrderByItems()
		if err != nil {
			return nil, err
		}
		spec.OrderBy = items
	}
	if g.isKind(token.ROWS) || g.isKind(token.RANGE) || g.isKind(token.GROUPS) {
		frame, err := g.parseFrameSpec()
		if err != nil {
			return nil, err
		}
		spec.Frame = frame
	}
	if _, err := g.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return spec, nil
}

func (g *grammar) parseFrameSpec() (*ast.FrameSpec, error) {
	unit := g.advance().Kind.String()
	f := &ast.FrameSpec{Unit: unit}
	if g.accept(token.BETWEEN) {
		start, err := g.parseFrameBound()
		if err != nil {
			return nil, err
		}
		if _, err := g.expect(token.AND); err != nil {
			return nil, err
		}
		end, err := g.parseFrameBound()
		if err != nil {
			return nil, err
		}
		f.Start, f.End = start, &end
	} else {
		start, err := g.parseFrameBound()
		if err != nil {
			return nil, err
		}
		f.Start = start
	}
	if g.accept(token.EXCLUDE) {
		switch {
		case g.acceptSeq(token.CURRENT, token.ROW):
			f.Exclude = "CURRENT ROW"
		case g.accept(token.GROUP):
			f.Exclude = "GROUP"
		case g.accept(token.TIES):
			f.Exclude = "TIES"
		default:
			if _, err := g.expectIdentText("NO"); err != nil {
				return nil, err
			}
			if _, err := g.expectIdentText("OTHERS"); err != nil {
				return nil, err
			}
			f.Exclude = "NO OTHERS"
		}
	}
	return f, nil
}

func (g *grammar) parseFrameBound() (ast.FrameBound, error) {
	switch {
	case g.isKind(token.IDENT) && strings.EqualFold(g.cur().Ident, "UNBOUNDED"):
		g.advance()
		switch {
		case g.isKind(token.IDENT) && strings.EqualFold(g.cur().Ident, "PRECEDING"):
			g.advance()
			return ast.FrameBound{Kind: "UNBOUNDED_PRECEDING"}, nil
		case g.isKind(token.IDENT) && strings.EqualFold(g.cur().Ident, "FOLLOWING"):
			g.advance()
			return ast.FrameBound{Kind: "UNBOUNDED_FOLLOWING"}, nil
		}
		return ast.FrameBound{}, g.syntaxError()
	case g.acceptSeq(token.CURRENT, token.ROW):
		return ast.FrameBound{Kind: "CURRENT_ROW"}, nil
	default:
		e, err := g.parseExpr()
		if err != nil {
			return ast.FrameBound{}, err
		}
		switch {
		case g.isKind(token.IDENT) && strings.EqualFold(g.cur().Ident, "PRECEDING"):
			g.advance()
			return ast.FrameBound{Kind: "PRECEDING", Offset: e}, nil
		case g.isKind(token.IDENT) && strings.EqualFold(g.cur().Ident, "FOLLOWING"):
			g.advance()
			return ast.FrameBound{Kind: "FOLLOWING", Offset: e}, nil
		}
		return ast.FrameBound{}, g.syntaxError()
	}
}
