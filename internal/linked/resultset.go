package linked

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/dberr"
	"github.com/quilldb/quill/internal/engine"
)

// rowsResultSet adapts a *sql.Rows stream from a remote linked-table driver
// into the engine.ResultSet contract, so a pushed-down query is
// indistinguishable from any other query's lazy result to the command
// runtime (spec.md GLOSSARY "Lazy result").
type rowsResultSet struct {
	rows    *sql.Rows
	columns []string
	scratch []any // reused scan targets, one *any per column
}

func newRowsResultSet(rows *sql.Rows) (engine.ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, dberr.Wrap(dberr.ConnectionBroken, err)
	}
	scratch := make([]any, len(cols))
	for i := range scratch {
		scratch[i] = new(any)
	}
	return &rowsResultSet{rows: rows, columns: cols, scratch: scratch}, nil
}

func (r *rowsResultSet) Columns() []string { return r.columns }

func (r *rowsResultSet) Next(ctx context.Context) (engine.Row, bool, error) {
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return nil, false, dberr.Wrap(dberr.ConnectionBroken, err)
		}
		return nil, false, nil
	}
	if err := r.rows.Scan(r.scratch...); err != nil {
		return nil, false, dberr.Wrap(dberr.ConnectionBroken, err)
	}
	row := make(engine.Row, len(r.scratch))
	for i, cell := range r.scratch {
		row[i] = fromDriverValue(*cell.(*any))
	}
	return row, true, nil
}

func (r *rowsResultSet) Close() error {
	return r.rows.Close()
}

// fromDriverValue converts a database/sql scan result back into the engine's
// own tagged-union Value (spec.md §3 "Literal value"). database/sql already
// normalizes driver-specific wire types down to a handful of Go kinds
// (int64, float64, bool, []byte, string, time.Time, nil), so this is a
// direct, non-lossy mapping rather than a per-dialect type table.
func fromDriverValue(v any) ast.Value {
	switch x := v.(type) {
	case nil:
		return ast.Value{Kind: ast.VNull}
	case int64:
		return ast.Value{Kind: ast.VInteger, Int: x}
	case float64:
		return ast.Value{Kind: ast.VDecimal, Dec: strconv.FormatFloat(x, 'g', -1, 64)}
	case bool:
		return ast.Value{Kind: ast.VBoolean, Bool: x}
	case []byte:
		return ast.Value{Kind: ast.VBinary, Bytes: x}
	case string:
		return ast.Value{Kind: ast.VString, Str: x}
	case time.Time:
		return ast.Value{Kind: ast.VTimestamp, Temporal: x.Format("2006-01-02 15:04:05.999999999")}
	default:
		return ast.Value{Kind: ast.VString, Str: ""}
	}
}
