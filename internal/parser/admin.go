package parser

import (
	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/token"
)

// parseAdminStatement covers spec.md §4.3's transaction-control and
// session/admin statement family: everything that is neither a query body,
// DML, nor DDL. Each constructor is called with a zero ParameterList/epoch;
// parseOnce's Bind call fills both in once the whole statement (and its
// parameter scope) has been parsed.
func (g *grammar) parseAdminStatement() (ast.Prepared, error) {
	switch {
	case g.accept(token.BEGIN):
		g.accept(token.TRANSACTION)
		return ast.NewBegin(nil, 0), nil
	case g.accept(token.START):
		if _, err := g.expect(token.TRANSACTION); err != nil {
			return nil, err
		}
		return ast.NewBegin(nil, 0), nil
	case g.accept(token.COMMIT):
		return ast.NewCommit(nil, 0), nil
	case g.accept(token.ROLLBACK):
		if g.accept(token.TO) {
			g.accept(token.SAVEPOINT)
			name, err := g.parseIdent()
			if err != nil {
				return nil, err
			}
			return ast.NewRollbackTo(nil, 0, name), nil
		}
		return ast.NewRollback(nil, 0), nil
	case g.accept(token.SAVEPOINT):
		name, err := g.parseIdent()
		if err != nil {
			return nil, err
		}
		return ast.NewSavepoint(nil, 0, name), nil
	case g.accept(token.RELEASE):
		g.accept(token.SAVEPOINT)
		name, err := g.parseIdent()
		if err != nil {
			return nil, err
		}
		return ast.NewRelease(nil, 0, name), nil
	case g.accept(token.PREPARE):
		if _, err := g.expect(token.COMMIT); err != nil {
			return nil, err
		}
		txnID, err := g.expectStringLiteral()
		if err != nil {
			return nil, err
		}
		return ast.NewPrepareCommit(nil, 0, txnID), nil
	case g.accept(token.CHECKPOINT):
		sync := g.accept(token.SYNC)
		return ast.NewCheckpoint(nil, 0, sync), nil
	case g.accept(token.SHUTDOWN):
		mode := ""
		switch {
		case g.accept(token.IMMEDIATELY):
			mode = "IMMEDIATELY"
		case g.accept(token.COMPACT):
			mode = "COMPACT"
		case g.accept(token.DEFRAG):
			mode = "DEFRAG"
		}
		return ast.NewShutdown(nil, 0, mode), nil
	case g.accept(token.USE):
		schema, err := g.parseIdent()
		if err != nil {
			return nil, err
		}
		return &ast.Use{Schema: schema}, nil
	case g.accept(token.SET):
		return g.parseSetOption()
	case g.accept(token.SHOW):
		return g.parseShow()
	case g.accept(token.EXPLAIN):
		return g.parseExplain()
	case g.accept(token.CALL):
		return g.parseCall()
	case g.accept(token.TRUNCATE):
		g.accept(token.TABLE)
		table, err := g.parseTableName()
		if err != nil {
			return nil, err
		}
		return &ast.Truncate{Table: table}, nil
	case g.accept(token.ANALYZE):
		if !g.startsClauseBoundary() {
			table, err := g.parseTableName()
			if err != nil {
				return nil, err
			}
			return &ast.Analyze{Table: table}, nil
		}
		return &ast.Analyze{}, nil
	case g.accept(token.BACKUP):
		if _, err := g.expect(token.TO); err != nil {
			return nil, err
		}
		path, err := g.expectStringLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.Backup{Path: path}, nil
	case g.accept(token.GRANT):
		return g.parseGrant()
	case g.accept(token.REVOKE):
		return g.parseRevoke()
	case g.accept(token.COMMENT):
		return g.parseCommentOn()
	case g.accept(token.RUNSCRIPT):
		if _, err := g.expect(token.FROM); err != nil {
			return nil, err
		}
		path, err := g.expectStringLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.RunScript{Path: path}, nil
	case g.accept(token.SCRIPT):
		s := &ast.Script{}
		if g.accept(token.TO) {
			path, err := g.expectStringLiteral()
			if err != nil {
				return nil, err
			}
			s.Path = path
		}
		return s, nil
	case g.accept(token.HELP):
		h := &ast.Help{}
		if g.isKind(token.IDENT) || g.cur().Quoted || g.cur().Kind.IsKeyword() {
			topic, err := g.parsePrivilegeName()
			if err != nil {
				return nil, err
			}
			h.Topic = topic
		}
		return h, nil
	}
	return nil, g.syntaxError()
}

// parseSetOption covers `SET name = value`, a session or database option
// assignment that never trusts the epoch cache (spec.md §4.6 "SET ...
// session-local statements never trust a cached plan").
func (g *grammar) parseSetOption() (ast.Prepared, error) {
	name, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	g.accept(token.EQ)
	val, err := g.parseExpr()
	if err != nil {
		return nil, err
	}
	opt := &ast.SetOption{Name: name, Value: val}
	opt.SetPrepareAlways()
	return opt, nil
}

// parseShow covers `SHOW thing [LIKE pattern]`.
func (g *grammar) parseShow() (ast.Prepared, error) {
	thing, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	s := &ast.Show{Thing: thing}
	if g.accept(token.LIKE) {
		pattern, err := g.expectStringLiteral()
		if err != nil {
			return nil, err
		}
		s.Pattern = pattern
	}
	return s, nil
}

// parseExplain covers `EXPLAIN [ANALYZE] statement`; the inner statement is
// any other Prepared kind, including another admin statement.
func (g *grammar) parseExplain() (ast.Prepared, error) {
	analyze := g.accept(token.ANALYZE)
	g.accept(token.PLAN)
	target, err := g.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.Explain{Analyze: analyze, Target: target}, nil
}

// parseCall covers `CALL name(args)`.
func (g *grammar) parseCall() (ast.Prepared, error) {
	name, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	c := &ast.Call{Name: name}
	if _, err := g.expect(token.LPAREN); err != nil {
		return nil, err
	}
	if !g.isKind(token.RPAREN) {
		for {
			e, err := g.parseExpr()
			if err != nil {
				return nil, err
			}
			c.Args = append(c.Args, e)
			if !g.accept(token.COMMA) {
				break
			}
		}
	}
	if _, err := g.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return c, nil
}

// parsePrivilegeName reads one privilege name: most are reserved keywords
// (SELECT, INSERT, UPDATE, DELETE, ALL, ...) rather than plain identifiers,
// unlike every other name in the grammar, so this accepts any keyword
// spelling in addition to what parseIdent already allows.
func (g *grammar) parsePrivilegeName() (string, error) {
	t := g.cur()
	if t.Kind.IsKeyword() && !t.Quoted {
		g.advance()
		return t.Kind.String(), nil
	}
	return g.parseIdent()
}

// parsePrivilegeList parses the comma-separated privilege list shared by
// GRANT and REVOKE: `name [(col, ...)], ...`.
func (g *grammar) parsePrivilegeList() ([]ast.Privilege, error) {
	var privs []ast.Privilege
	for {
		name, err := g.parsePrivilegeName()
		if err != nil {
			return nil, err
		}
		p := ast.Privilege{Name: name}
		if g.accept(token.LPAREN) {
			for {
				col, err := g.parseIdent()
				if err != nil {
					return nil, err
				}
				p.Columns = append(p.Columns, col)
				if !g.accept(token.COMMA) {
					break
				}
			}
			if _, err := g.expect(token.RPAREN); err != nil {
				return nil, err
			}
		}
		privs = append(privs, p)
		if !g.accept(token.COMMA) {
			break
		}
	}
	return privs, nil
}

// parseGrant covers `GRANT privileges ON object TO grantee`.
func (g *grammar) parseGrant() (ast.Prepared, error) {
	privs, err := g.parsePrivilegeList()
	if err != nil {
		return nil, err
	}
	if _, err := g.expect(token.ON); err != nil {
		return nil, err
	}
	g.accept(token.TABLE)
	object, err := g.parseDottedName()
	if err != nil {
		return nil, err
	}
	if _, err := g.expect(token.TO); err != nil {
		return nil, err
	}
	grantee, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	return &ast.Grant{Privileges: privs, Object: object, Grantee: grantee}, nil
}

// parseRevoke covers `REVOKE privileges ON object FROM grantee`.
func (g *grammar) parseRevoke() (ast.Prepared, error) {
	privs, err := g.parsePrivilegeList()
	if err != nil {
		return nil, err
	}
	if _, err := g.expect(token.ON); err != nil {
		return nil, err
	}
	g.accept(token.TABLE)
	object, err := g.parseDottedName()
	if err != nil {
		return nil, err
	}
	if _, err := g.expect(token.FROM); err != nil {
		return nil, err
	}
	grantee, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	return &ast.Revoke{Privileges: privs, Object: object, Grantee: grantee}, nil
}

// parseCommentOn covers `COMMENT ON object IS 'text'`.
func (g *grammar) parseCommentOn() (ast.Prepared, error) {
	if _, err := g.expect(token.ON); err != nil {
		return nil, err
	}
	// The object-kind keyword (TABLE, COLUMN, ...) is kept out of Object;
	// Dependencies() only needs the dotted name.
	g.accept(token.TABLE)
	g.accept(token.COLUMN)
	object, err := g.parseDottedName()
	if err != nil {
		return nil, err
	}
	if _, err := g.expect(token.IS); err != nil {
		return nil, err
	}
	text, err := g.expectStringLiteral()
	if err != nil {
		return nil, err
	}
	return &ast.CommentOn{Object: object, Text: text}, nil
}
