package parser

import (
	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/token"
)

// parseInsert covers spec.md §4.3 "Statements": INSERT INTO table [(cols)]
// {VALUES (...)+ | query} [ON CONFLICT/ON DUPLICATE KEY ... raw tail].
func (g *grammar) parseInsert() (ast.Prepared, error) {
	if _, err := g.expect(token.INSERT); err != nil {
		return nil, err
	}
	if _, err := g.expect(token.INTO); err != nil {
		return nil, err
	}
	ins := &ast.Insert{}
	table, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	ins.Table = table
	if g.accept(token.LPAREN) {
		for {
			col, err := g.parseIdent()
			if err != nil {
				return nil, err
			}
			ins.Columns = append(ins.Columns, col)
			if !g.accept(token.COMMA) {
				break
			}
		}
		if _, err := g.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}
	if g.startsSelectish() {
		q, err := g.parseSelectish()
		if err != nil {
			return nil, err
		}
		ins.Query = q
		return ins, nil
	}
	if _, err := g.expect(token.VALUES); err != nil {
		return nil, err
	}
	rows, err := g.parseValuesRows()
	if err != nil {
		return nil, err
	}
	ins.Rows = rows
	ins.OnConflict = g.parseRawConflictTail()
	return ins, nil
}

// parseRawConflictTail passes a dialect-specific ON CONFLICT/ON DUPLICATE
// KEY UPDATE clause through verbatim rather than modeling every dialect's
// shape (spec.md §9 "common DDL shapes precisely, rare dialect-specific
// clauses as raw text").
func (g *grammar) parseRawConflictTail() string {
	if !g.isKind(token.ON) {
		return ""
	}
	start := g.cur().Start
	depth := 0
	for {
		t := g.cur()
		if t.Kind == token.EOF {
			break
		}
		if t.Kind == token.LPAREN {
			depth++
		}
		if t.Kind == token.RPAREN {
			if depth == 0 {
				break
			}
			depth--
		}
		if t.Kind == token.SEMICOLON && depth == 0 {
			break
		}
		g.advance()
	}
	return g.sql[start:g.cur().Start]
}

func (g *grammar) parseReplace() (ast.Prepared, error) {
	if _, err := g.expect(token.REPLACE); err != nil {
		return nil, err
	}
	if _, err := g.expect(token.INTO); err != nil {
		return nil, err
	}
	rep := &ast.Replace{}
	table, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	rep.Table = table
	if g.accept(token.LPAREN) {
		for {
			col, err := g.parseIdent()
			if err != nil {
				return nil, err
			}
			rep.Columns = append(rep.Columns, col)
			if !g.accept(token.COMMA) {
				break
			}
		}
		if _, err := g.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}
	if g.startsSelectish() {
		q, err := g.parseSelectish()
		if err != nil {
			return nil, err
		}
		rep.Query = q
		return rep, nil
	}
	if _, err := g.expect(token.VALUES); err != nil {
		return nil, err
	}
	rows, err := g.parseValuesRows()
	if err != nil {
		return nil, err
	}
	rep.Rows = rows
	return rep, nil
}

// parseUpdate covers UPDATE table SET col=expr, ... [WHERE ...] [ORDER BY]
// [LIMIT n] — the ORDER BY/LIMIT tail is a MySQL extension, accepted here
// for every dialect; like FULL OUTER JOIN, nothing in this module rejects
// it later.
func (g *grammar) parseUpdate() (ast.Prepared, error) {
	if _, err := g.expect(token.UPDATE); err != nil {
		return nil, err
	}
	u := &ast.Update{}
	table, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	u.Table = table
	if _, err := g.expect(token.SET); err != nil {
		return nil, err
	}
	for {
		col, err := g.parseIdent()
		if err != nil {
			return nil, err
		}
		if _, err := g.expect(token.EQ); err != nil {
			return nil, err
		}
		val, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		u.Set = append(u.Set, ast.Assignment{Column: col, Value: val})
		if !g.accept(token.COMMA) {
			break
		}
	}
	if g.accept(token.WHERE) {
		w, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		u.Where = w
	}
	if g.accept(token.ORDER) {
		if _, err := g.expect(token.BY); err != nil {
			return nil, err
		}
		items, err := g.parseOrderByItems()
		if err != nil {
			return nil, err
		}
		u.OrderBy = items
	}
	if g.accept(token.LIMIT) {
		n, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		u.Limit = n
	}
	return u, nil
}

func (g *grammar) parseDelete() (ast.Prepared, error) {
	if _, err := g.expect(token.DELETE); err != nil {
		return nil, err
	}
	if _, err := g.expect(token.FROM); err != nil {
		return nil, err
	}
	d := &ast.Delete{}
	table, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	d.Table = table
	if g.accept(token.WHERE) {
		w, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		d.Where = w
	}
	if g.accept(token.ORDER) {
		if _, err := g.expect(token.BY); err != nil {
			return nil, err
		}
		items, err := g.parseOrderByItems()
		if err != nil {
			return nil, err
		}
		d.OrderBy = items
	}
	if g.accept(token.LIMIT) {
		n, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		d.Limit = n
	}
	return d, nil
}

// parseMerge covers MERGE INTO target USING source ON cond WHEN [NOT]
// MATCHED [AND guard] THEN {UPDATE SET ... | DELETE | INSERT (...) VALUES
// (...)}. A subquery source is left as a *ast.SubqueryTable; nothing in this
// module materializes it as a view.
func (g *grammar) parseMerge() (ast.Prepared, error) {
	if _, err := g.expect(token.MERGE); err != nil {
		return nil, err
	}
	g.accept(token.INTO)
	m := &ast.Merge{}
	target, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	m.Target = target
	if _, err := g.expect(token.USING); err != nil {
		return nil, err
	}
	source, err := g.parseTablePrimary()
	if err != nil {
		return nil, err
	}
	m.Source = source
	if _, err := g.expect(token.ON); err != nil {
		return nil, err
	}
	on, err := g.parseExpr()
	if err != nil {
		return nil, err
	}
	m.On = on
	for g.accept(token.WHEN) {
		action := ast.MergeAction{}
		if g.accept(token.NOT) {
			if _, err := g.expect(token.WHEN_MATCHED); err != nil {
				return nil, err
			}
			action.Matched = false
		} else {
			if _, err := g.expect(token.WHEN_MATCHED); err != nil {
				return nil, err
			}
			action.Matched = true
		}
		if g.accept(token.AND) {
			guard, err := g.parseExpr()
			if err != nil {
				return nil, err
			}
			action.Guard = guard
		}
		if _, err := g.expect(token.THEN); err != nil {
			return nil, err
		}
		switch {
		case g.accept(token.UPDATE):
			if _, err := g.expect(token.SET); err != nil {
				return nil, err
			}
			for {
				col, err := g.parseIdent()
				if err != nil {
					return nil, err
				}
				if _, err := g.expect(token.EQ); err != nil {
					return nil, err
				}
				val, err := g.parseExpr()
				if err != nil {
					return nil, err
				}
				action.UpdateSet = append(action.UpdateSet, ast.Assignment{Column: col, Value: val})
				if !g.accept(token.COMMA) {
					break
				}
			}
		case g.accept(token.DELETE):
			action.Delete = true
		case g.accept(token.INSERT):
			if g.accept(token.LPAREN) {
				for {
					col, err := g.parseIdent()
					if err != nil {
						return nil, err
					}
					action.InsertCols = append(action.InsertCols, col)
					if !g.accept(token.COMMA) {
						break
					}
				}
				if _, err := g.expect(token.RPAREN); err != nil {
					return nil, err
				}
			}
			if _, err := g.expect(token.VALUES); err != nil {
				return nil, err
			}
			if _, err := g.expect(token.LPAREN); err != nil {
				return nil, err
			}
			for {
				e, err := g.parseExpr()
				if err != nil {
					return nil, err
				}
				action.InsertVals = append(action.InsertVals, e)
				if !g.accept(token.COMMA) {
					break
				}
			}
			if _, err := g.expect(token.RPAREN); err != nil {
				return nil, err
			}
		default:
			return nil, g.syntaxError()
		}
		m.Actions = append(m.Actions, action)
	}
	return m, nil
}
