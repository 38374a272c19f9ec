package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/k0kubun/pp/v3"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/command"
	"github.com/quilldb/quill/internal/dberr"
	"github.com/quilldb/quill/internal/engine"
	"github.com/quilldb/quill/internal/parser"
)

// runText drives sql statement-by-statement against sess, the same "parse
// one, run it, move to the next" loop the teacher's cmd/mysqldef main()
// runs over a list of DDLs (spec.md §4.5's Command List generalizes this
// same shape into a lazy, catalog-aware pipeline; a REPL just wants each
// statement's own result printed immediately instead).
func runText(ctx context.Context, out io.Writer, sess *replSession, sql string, debug bool) error {
	rest := sql
	for {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return nil
		}
		stmt, consumed, err := parser.ParsePrefix(rest, parser.Options{
			Config:      sess.LexerConfig(),
			Epoch:       sess.Catalog().Epoch(),
			ShadowViews: sess.Catalog(),
		})
		if err != nil {
			return dberr.AddSQL(err, rest)
		}
		text := rest[:consumed]
		rest = rest[consumed:]

		if debug {
			pp.Println(stmt)
		}

		cmd := command.New(sess, stmt, text)
		if err := runOne(ctx, out, cmd, stmt); err != nil {
			return err
		}
		if err := cmd.Stop(true); err != nil {
			return err
		}
	}
}

func runOne(ctx context.Context, out io.Writer, cmd *command.Command, stmt ast.Prepared) error {
	if stmt.IsQuery() {
		rs, err := cmd.ExecuteQuery(ctx, 0, 0, false)
		if err != nil {
			return err
		}
		defer rs.Close()
		return printResultSet(out, rs)
	}
	result, err := cmd.ExecuteUpdate(ctx, engine.NoGeneratedKeys)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "OK, %d row(s) affected\n", result.Count)
	return nil
}

func printResultSet(out io.Writer, rs engine.ResultSet) error {
	cols := rs.Columns()
	fmt.Fprintln(out, strings.Join(cols, "\t"))
	ctx := context.Background()
	n := 0
	for {
		row, ok, err := rs.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		fmt.Fprintln(out, strings.Join(cells, "\t"))
		n++
	}
	fmt.Fprintf(out, "(%d row(s))\n", n)
	return nil
}
