package parser

import (
	"strconv"
	"strings"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/dberr"
	"github.com/quilldb/quill/internal/token"
)

// parseCreate dispatches the CREATE family (spec.md §4.3 "Statements"):
// TABLE, [OR REPLACE] VIEW, MATERIALIZED VIEW, [UNIQUE] INDEX, SCHEMA,
// SEQUENCE, LINKED TABLE, and the long-tail DOMAIN/CONSTANT/ROLE/USER/
// TRIGGER/SYNONYM/AGGREGATE forms.
func (g *grammar) parseCreate() (ast.Prepared, error) {
	if _, err := g.expect(token.CREATE); err != nil {
		return nil, err
	}
	orReplace := g.accept(token.OR) // OR REPLACE
	if orReplace {
		if _, err := g.expect(token.REPLACE); err != nil {
			return nil, err
		}
	}
	temporary := g.accept(token.TEMPORARY)
	unique := g.accept(token.UNIQUE)

	switch {
	case g.accept(token.TABLE):
		return g.parseCreateTableTail(temporary)
	case g.accept(token.VIEW):
		return g.parseCreateViewTail(orReplace)
	case g.acceptSeq(token.MATERIALIZED, token.VIEW):
		return g.parseCreateMaterializedViewTail()
	case g.accept(token.INDEX):
		return g.parseCreateIndexTail(unique)
	case g.accept(token.SCHEMA):
		return g.parseCreateSchemaTail()
	case g.accept(token.SEQUENCE):
		return g.parseCreateSequenceTail()
	case g.acceptSeq(token.LINKED, token.TABLE):
		return g.parseCreateLinkedTableTail()
	case g.accept(token.DOMAIN):
		return g.parseCreateDomainTail()
	case g.accept(token.CONSTANT):
		return g.parseCreateConstantTail()
	case g.accept(token.ROLE):
		return g.parseCreateRoleTail()
	case g.accept(token.USER):
		return g.parseCreateUserTail()
	case g.accept(token.TRIGGER):
		return g.parseCreateTriggerTail()
	case g.accept(token.SYNONYM):
		return g.parseCreateSynonymTail()
	case g.accept(token.AGGREGATE):
		return g.parseCreateAggregateTail()
	}
	return nil, g.syntaxError()
}

func (g *grammar) parseCreateTableTail(temporary bool) (ast.Prepared, error) {
	ct := &ast.CreateTable{Temporary: temporary}
	ct.IfNotExists = g.acceptSeq(token.IF, token.NOT, token.EXISTS)
	name, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	ct.Name = name
	if g.accept(token.AS) {
		q, err := g.parseSelectish()
		if err != nil {
			return nil, err
		}
		ct.As = q
		return ct, nil
	}
	if _, err := g.expect(token.LPAREN); err != nil {
		return nil, err
	}
	for {
		if g.startsTableConstraint() {
			tc, err := g.parseTableConstraint()
			if err != nil {
				return nil, err
			}
			ct.Constraints = append(ct.Constraints, tc)
		} else {
			col, err := g.parseColumnDef()
			if err != nil {
				return nil, err
			}
			ct.Columns = append(ct.Columns, col)
		}
		if !g.accept(token.COMMA) {
			break
		}
	}
	if _, err := g.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return ct, nil
}

func (g *grammar) startsTableConstraint() bool {
	switch {
	case g.isKind(token.CONSTRAINT):
		return true
	case g.isKind(token.PRIMARY) || g.isKind(token.UNIQUE) || g.isKind(token.FOREIGN) || g.isKind(token.CHECK):
		return true
	}
	return false
}

func (g *grammar) parseTableConstraint() (ast.TableConstraint, error) {
	tc := ast.TableConstraint{}
	if g.accept(token.CONSTRAINT) {
		name, err := g.parseIdent()
		if err != nil {
			return tc, err
		}
		tc.Name = name
	}
	switch {
	case g.acceptSeq(token.PRIMARY, token.KEY):
		tc.Kind = "PRIMARY KEY"
		cols, err := g.parseParenIdentList()
		if err != nil {
			return tc, err
		}
		tc.Columns = cols
	case g.accept(token.UNIQUE):
		tc.Kind = "UNIQUE"
		cols, err := g.parseParenIdentList()
		if err != nil {
			return tc, err
		}
		tc.Columns = cols
	case g.acceptSeq(token.FOREIGN, token.KEY):
		tc.Kind = "FOREIGN KEY"
		cols, err := g.parseParenIdentList()
		if err != nil {
			return tc, err
		}
		tc.Columns = cols
		if _, err := g.expect(token.REFERENCES); err != nil {
			return tc, err
		}
		ref, err := g.parseTableName()
		if err != nil {
			return tc, err
		}
		tc.References = ref
		if g.isKind(token.LPAREN) {
			refCols, err := g.parseParenIdentList()
			if err != nil {
				return tc, err
			}
			tc.RefColumns = refCols
		}
	case g.accept(token.CHECK):
		tc.Kind = "CHECK"
		if _, err := g.expect(token.LPAREN); err != nil {
			return tc, err
		}
		e, err := g.parseExpr()
		if err != nil {
			return tc, err
		}
		tc.Check = e
		if _, err := g.expect(token.RPAREN); err != nil {
			return tc, err
		}
	default:
		return tc, g.syntaxError()
	}
	return tc, nil
}

func (g *grammar) parseParenIdentList() ([]string, error) {
	if _, err := g.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var out []string
	for {
		name, err := g.parseIdent()
		if err != nil {
			return nil, err
		}
		out = append(out, name)
		if !g.accept(token.COMMA) {
			break
		}
	}
	if _, err := g.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *grammar) parseColumnDef() (ast.ColumnDef, error) {
	cd := ast.ColumnDef{}
	name, err := g.parseIdent()
	if err != nil {
		return cd, err
	}
	cd.Name = name
	typ, err := g.parseTypeName()
	if err != nil {
		return cd, err
	}
	cd.Type = typ
	for {
		switch {
		case g.acceptSeq(token.NOT, token.NULL_KW):
			cd.NotNull = true
		case g.accept(token.DEFAULT):
			e, err := g.parseExpr()
			if err != nil {
				return cd, err
			}
			cd.Default = e
		case g.acceptSeq(token.PRIMARY, token.KEY):
			cd.PrimaryKey = true
		case g.accept(token.UNIQUE):
			cd.Unique = true
		case g.accept(token.REFERENCES):
			ref, err := g.parseTableName()
			if err != nil {
				return cd, err
			}
			cd.References = ref
		case g.accept(token.IDENTITY):
			cd.Identity = true
		case g.accept(token.COLLATE):
			coll, err := g.parseIdent()
			if err != nil {
				return cd, err
			}
			cd.Collation = coll
		default:
			return cd, nil
		}
	}
}

func (g *grammar) parseCreateViewTail(orReplace bool) (ast.Prepared, error) {
	cv := &ast.CreateView{OrReplace: orReplace}
	name, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	cv.Name = name
	if g.isKind(token.LPAREN) {
		cols, err := g.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		cv.Columns = cols
	}
	if _, err := g.expect(token.AS); err != nil {
		return nil, err
	}
	q, err := g.parseSelectish()
	if err != nil {
		return nil, err
	}
	cv.Query = q
	return cv, nil
}

func (g *grammar) parseCreateMaterializedViewTail() (ast.Prepared, error) {
	cv := &ast.CreateMaterializedView{}
	name, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	cv.Name = name
	if g.isKind(token.LPAREN) {
		cols, err := g.parseParenIdentList()
		if err != nil {
			return nil, err
		}
		cv.Columns = cols
	}
	if _, err := g.expect(token.AS); err != nil {
		return nil, err
	}
	q, err := g.parseSelectish()
	if err != nil {
		return nil, err
	}
	cv.Query = q
	return cv, nil
}

func (g *grammar) parseCreateIndexTail(unique bool) (ast.Prepared, error) {
	ci := &ast.CreateIndex{Unique: unique}
	ci.IfNotExists = g.acceptSeq(token.IF, token.NOT, token.EXISTS)
	name, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	ci.Name = name
	if _, err := g.expect(token.ON); err != nil {
		return nil, err
	}
	table, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	ci.Table = table
	if _, err := g.expect(token.LPAREN); err != nil {
		return nil, err
	}
	for {
		colName, err := g.parseIdent()
		if err != nil {
			return nil, err
		}
		ic := ast.IndexColumn{Name: colName}
		if g.accept(token.DESC) {
			ic.Desc = true
		} else {
			g.accept(token.ASC)
		}
		ci.Columns = append(ci.Columns, ic)
		if !g.accept(token.COMMA) {
			break
		}
	}
	if _, err := g.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return ci, nil
}

func (g *grammar) parseCreateSchemaTail() (ast.Prepared, error) {
	cs := &ast.CreateSchema{}
	cs.IfNotExists = g.acceptSeq(token.IF, token.NOT, token.EXISTS)
	name, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	cs.Name = name
	if g.accept(token.AUTHORIZATION) {
		owner, err := g.parseIdent()
		if err != nil {
			return nil, err
		}
		cs.Authorization = owner
	}
	return cs, nil
}

func (g *grammar) parseCreateSequenceTail() (ast.Prepared, error) {
	seq := &ast.CreateSequence{}
	name, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	seq.Name = name
	for {
		switch {
		case g.acceptSeq(token.START, token.WITH):
			n, err := g.parseSignedInt()
			if err != nil {
				return nil, err
			}
			seq.StartWith = &n
		case g.acceptSeq(token.INCREMENT, token.BY):
			n, err := g.parseSignedInt()
			if err != nil {
				return nil, err
			}
			seq.Increment = &n
		case g.accept(token.MINVALUE_KW):
			n, err := g.parseSignedInt()
			if err != nil {
				return nil, err
			}
			seq.MinValue = &n
		case g.accept(token.MAXVALUE_KW):
			n, err := g.parseSignedInt()
			if err != nil {
				return nil, err
			}
			seq.MaxValue = &n
		case g.accept(token.CYCLE):
			seq.Cycle = true
		default:
			return seq, nil
		}
	}
}

func (g *grammar) parseSignedInt() (int64, error) {
	neg := g.accept(token.MINUS)
	if !g.isKind(token.INTEGER) {
		g.addExpected(token.INTEGER.String())
		return 0, g.syntaxError()
	}
	n, err := strconv.ParseInt(g.advance().Literal, 10, 64)
	if err != nil {
		return 0, dberr.New(dberr.InvalidValue, "invalid integer %q", err).AtPosition(g.cur().Start)
	}
	if neg {
		n = -n
	}
	return n, nil
}

func (g *grammar) parseCreateLinkedTableTail() (ast.Prepared, error) {
	clt := &ast.CreateLinkedTable{}
	name, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	clt.Name = name
	if _, err := g.expect(token.LPAREN); err != nil {
		return nil, err
	}
	driver, err := g.expectStringLiteral()
	if err != nil {
		return nil, err
	}
	clt.Driver = driver
	if _, err := g.expect(token.COMMA); err != nil {
		return nil, err
	}
	dsn, err := g.expectStringLiteral()
	if err != nil {
		return nil, err
	}
	clt.DSN = dsn
	if _, err := g.expect(token.COMMA); err != nil {
		return nil, err
	}
	remote, err := g.expectStringLiteral()
	if err != nil {
		return nil, err
	}
	clt.RemoteTable = remote
	if _, err := g.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return clt, nil
}

func (g *grammar) parseCreateDomainTail() (ast.Prepared, error) {
	cd := &ast.CreateDomain{}
	name, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	cd.Name = name
	if _, err := g.expect(token.AS); err != nil {
		return nil, err
	}
	typ, err := g.parseTypeName()
	if err != nil {
		return nil, err
	}
	cd.BaseType = typ
	if g.accept(token.CHECK) {
		if _, err := g.expect(token.LPAREN); err != nil {
			return nil, err
		}
		e, err := g.parseExpr()
		if err != nil {
			return nil, err
		}
		cd.Check = e
		if _, err := g.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}
	cd.RawTail = g.consumeRawTail()
	return cd, nil
}

// consumeRawTail swallows anything left before the statement terminator,
// for long-tail forms whose trailing clauses aren't worth structuring.
func (g *grammar) consumeRawTail() string {
	start := g.cur().Start
	for !g.isKind(token.SEMICOLON) && !g.isKind(token.EOF) {
		g.advance()
	}
	return strings.TrimSpace(g.sql[start:g.cur().Start])
}

func (g *grammar) parseCreateConstantTail() (ast.Prepared, error) {
	cc := &ast.CreateConstant{}
	name, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	cc.Name = name
	typ, err := g.parseTypeName()
	if err != nil {
		return nil, err
	}
	cc.Type = typ
	if _, err := g.expect(token.VALUE); err != nil {
		return nil, err
	}
	v, err := g.parseExpr()
	if err != nil {
		return nil, err
	}
	cc.Value = v
	return cc, nil
}

func (g *grammar) parseCreateRoleTail() (ast.Prepared, error) {
	name, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	return &ast.CreateRole{Name: name}, nil
}

func (g *grammar) parseCreateUserTail() (ast.Prepared, error) {
	cu := &ast.CreateUser{}
	name, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	cu.Name = name
	if g.accept(token.PASSWORD) {
		pw, err := g.expectStringLiteral()
		if err != nil {
			return nil, err
		}
		cu.Password = pw
	}
	if g.accept(token.ADMIN) {
		cu.Admin = true
	}
	return cu, nil
}

func (g *grammar) parseCreateTriggerTail() (ast.Prepared, error) {
	ct := &ast.CreateTrigger{}
	name, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	ct.Name = name
	switch {
	case g.accept(token.BEFORE):
		ct.Timing = "BEFORE"
	case g.accept(token.AFTER):
		ct.Timing = "AFTER"
	case g.acceptSeq(token.INSTEAD, token.OF):
		ct.Timing = "INSTEAD OF"
	}
	for {
		switch {
		case g.accept(token.INSERT):
			ct.Events = append(ct.Events, "INSERT")
		case g.accept(token.UPDATE):
			ct.Events = append(ct.Events, "UPDATE")
		case g.accept(token.DELETE):
			ct.Events = append(ct.Events, "DELETE")
		default:
			goto eventsDone
		}
		if !g.accept(token.OR) {
			break
		}
	}
eventsDone:
	if _, err := g.expect(token.ON); err != nil {
		return nil, err
	}
	table, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	ct.Table = table
	ct.RawBody = g.consumeRawTail()
	return ct, nil
}

func (g *grammar) parseCreateSynonymTail() (ast.Prepared, error) {
	cs := &ast.CreateSynonym{}
	name, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	cs.Name = name
	if _, err := g.expect(token.FOR); err != nil {
		return nil, err
	}
	target, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	cs.Target = target
	return cs, nil
}

func (g *grammar) parseCreateAggregateTail() (ast.Prepared, error) {
	ca := &ast.CreateAggregate{}
	name, err := g.parseIdent()
	if err != nil {
		return nil, err
	}
	ca.Name = name
	if _, err := g.expect(token.FOR); err != nil {
		return nil, err
	}
	impl, err := g.expectStringLiteral()
	if err != nil {
		return nil, err
	}
	ca.ImplClass = impl
	return ca, nil
}

// parseDrop dispatches the DROP family onto the generic ast.DropObject
// shape (spec.md §9 "common DDL shapes precisely, rare ones as raw text").
func (g *grammar) parseDrop() (ast.Prepared, error) {
	if _, err := g.expect(token.DROP); err != nil {
		return nil, err
	}
	var kind ast.Kind
	switch {
	case g.accept(token.TABLE):
		kind = ast.DROP_TABLE
	case g.accept(token.VIEW):
		kind = ast.DROP_VIEW
	case g.accept(token.INDEX):
		kind = ast.DROP_INDEX
	case g.accept(token.SCHEMA):
		kind = ast.DROP_SCHEMA
	case g.accept(token.SEQUENCE):
		kind = ast.DROP_SEQUENCE
	case g.accept(token.CONSTANT):
		kind = ast.DROP_CONSTANT
	case g.accept(token.DOMAIN):
		kind = ast.DROP_DOMAIN
	case g.accept(token.ROLE):
		kind = ast.DROP_ROLE
	case g.accept(token.USER):
		kind = ast.DROP_USER
	case g.accept(token.ALIAS):
		kind = ast.DROP_ALIAS
	case g.accept(token.TRIGGER):
		kind = ast.DROP_TRIGGER
	case g.accept(token.SYNONYM):
		kind = ast.DROP_SYNONYM
	case g.accept(token.AGGREGATE):
		kind = ast.DROP_AGGREGATE
	case g.acceptSeq(token.MATERIALIZED, token.VIEW):
		kind = ast.DROP_MATERIALIZED_VIEW
	case g.acceptSeq(token.LINKED, token.TABLE):
		kind = ast.DROP_LINKED_TABLE
	default:
		return nil, g.syntaxError()
	}
	d := &ast.DropObject{ObjectKind: kind}
	d.IfExists = g.acceptSeq(token.IF, token.EXISTS)
	name, err := g.parseDottedName()
	if err != nil {
		return nil, err
	}
	d.Name = name
	if g.accept(token.CASCADE) {
		d.Cascade = true
	} else {
		g.accept(token.RESTRICT)
	}
	return d, nil
}

func (g *grammar) parseDottedName() (string, error) {
	first, err := g.parseIdent()
	if err != nil {
		return "", err
	}
	parts := []string{first}
	for g.accept(token.DOT) {
		p, err := g.parseIdent()
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "."), nil
}

// parseAlter dispatches the ALTER family: ALTER TABLE onto the action-coded
// ast.AlterTable, everything else onto the generic ast.AlterObject.
func (g *grammar) parseAlter() (ast.Prepared, error) {
	if _, err := g.expect(token.ALTER); err != nil {
		return nil, err
	}
	switch {
	case g.accept(token.TABLE):
		return g.parseAlterTableTail()
	case g.accept(token.VIEW):
		return g.parseAlterObjectTail(ast.ALTER_VIEW)
	case g.accept(token.INDEX):
		return g.parseAlterObjectTail(ast.ALTER_INDEX)
	case g.accept(token.SCHEMA):
		return g.parseAlterObjectTail(ast.ALTER_SCHEMA)
	case g.accept(token.SEQUENCE):
		return g.parseAlterObjectTail(ast.ALTER_SEQUENCE)
	case g.accept(token.DOMAIN):
		return g.parseAlterObjectTail(ast.ALTER_DOMAIN)
	case g.accept(token.USER):
		return g.parseAlterObjectTail(ast.ALTER_USER)
	}
	return nil, g.syntaxError()
}

func (g *grammar) parseAlterObjectTail(kind ast.Kind) (ast.Prepared, error) {
	name, err := g.parseDottedName()
	if err != nil {
		return nil, err
	}
	return &ast.AlterObject{ObjectKind: kind, Name: name, Raw: g.consumeRawTail()}, nil
}

func (g *grammar) parseAlterTableTail() (ast.Prepared, error) {
	at := &ast.AlterTable{}
	table, err := g.parseTableName()
	if err != nil {
		return nil, err
	}
	at.Table = table
	switch {
	case g.acceptSeq(token.ADD, token.COLUMN):
		col, err := g.parseColumnDef()
		if err != nil {
			return nil, err
		}
		at.ActionKind = ast.ALTER_TABLE_ADD_COLUMN
		at.AddColumn = &col
	case g.accept(token.ADD):
		if g.startsTableConstraint() {
			tc, err := g.parseTableConstraint()
			if err != nil {
				return nil, err
			}
			at.ActionKind = ast.ALTER_TABLE_ADD_CONSTRAINT
			at.AddConstraint = &tc
			return at, nil
		}
		col, err := g.parseColumnDef()
		if err != nil {
			return nil, err
		}
		at.ActionKind = ast.ALTER_TABLE_ADD_COLUMN
		at.AddColumn = &col
	case g.acceptSeq(token.DROP, token.COLUMN):
		name, err := g.parseIdent()
		if err != nil {
			return nil, err
		}
		at.ActionKind = ast.ALTER_TABLE_DROP_COLUMN
		at.DropColumn = name
	case g.acceptSeq(token.DROP, token.CONSTRAINT):
		name, err := g.parseIdent()
		if err != nil {
			return nil, err
		}
		at.ActionKind = ast.ALTER_TABLE_DROP_CONSTRAINT
		at.DropConstraint = name
	case g.acceptSeq(token.RENAME, token.TO):
		name, err := g.parseIdent()
		if err != nil {
			return nil, err
		}
		at.ActionKind = ast.ALTER_TABLE_RENAME
		at.RenameTo = name
	case g.acceptSeq(token.ALTER, token.COLUMN):
		// ALTER COLUMN is modeled as a raw tail: too dialect-specific (type
		// change vs. nullability vs. default) to structure precisely.
		at.ActionKind = ast.ALTER_TABLE_ALTER_COLUMN
		at.Raw = g.consumeRawTail()
	default:
		return nil, g.syntaxError()
	}
	return at, nil
}
