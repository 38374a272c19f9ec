// Package linked implements CREATE LINKED TABLE's runtime (spec.md §4.3
// "Statements": "CREATE ... LINKED TABLE"): opening a connection to a live
// external database through one of the four domain drivers, probing its
// remote table's column shape, and pushing queries/updates down to it.
//
// It is grounded on the teacher's own driver-abstraction layer in
// driver/database.go ("Abstraction layer for multiple kinds of databases":
// a Config plus a dialect switch choosing how to open *sql.DB and how to
// introspect it) and on each dialect package's NewDatabase constructor
// (database/mysql/database.go, database/postgres/database.go,
// database/mssql/database.go, database/sqlite3/sqlite3.go) for the
// sql.Open call and driver registration per dialect. A CreateLinkedTable
// statement already carries its own DSN literal (internal/ast/ddl.go), so
// unlike the teacher's Config-driven DSN builders, linked.Open only needs
// to pick the registered driver name for sql.Open.
package linked

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/quilldb/quill/internal/ast"
	"github.com/quilldb/quill/internal/dberr"
	"github.com/quilldb/quill/internal/engine"
)

// driverName maps a CREATE LINKED TABLE driver literal onto the
// database/sql driver name registered by that dialect's package import in
// drivers.go, mirroring driver/database.go's own dialect switch.
func driverName(dialect string) (string, error) {
	switch strings.ToLower(dialect) {
	case "mysql":
		return "mysql", nil
	case "postgres", "postgresql", "pq":
		return "postgres", nil
	case "mssql", "sqlserver":
		return "sqlserver", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	default:
		return "", dberr.New(dberr.UnsupportedFeature, "unsupported linked table driver %q", dialect)
	}
}

// Table is an opened, probed CREATE LINKED TABLE connection: a live *sql.DB
// plus the remote table name statements are pushed down against.
type Table struct {
	Name        string
	dialect     string
	db          *sql.DB
	RemoteTable string
	Columns     []ast.LinkedColumn
}

// Close releases the underlying connection.
func (t *Table) Close() error { return t.db.Close() }

// Registry is the session-local directory of opened linked tables keyed by
// their local name (spec.md §5 "Plan caches and reusable Command objects
// are session-local and not shared across sessions" — a Registry follows
// the same lifetime as the session that created it).
type Registry struct {
	mu     sync.Mutex
	tables map[string]*Table
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tables: map[string]*Table{}}
}

// Open executes a CREATE LINKED TABLE statement: it opens a connection
// through the requested driver, probes the remote table's column shape via
// a zero-row SELECT (the teacher's ExportDDLs/tableNames introspection
// generalized into a single driver-agnostic probe query), and registers the
// result under the statement's local name.
func (r *Registry) Open(ctx context.Context, stmt *ast.CreateLinkedTable) (*Table, error) {
	name, err := driverName(stmt.Driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(name, stmt.DSN)
	if err != nil {
		return nil, dberr.Wrap(dberr.ConnectionBroken, fmt.Errorf("opening linked table %q: %w", stmt.Name.String(), err))
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, dberr.Wrap(dberr.ConnectionBroken, fmt.Errorf("connecting to linked table %q: %w", stmt.Name.String(), err))
	}

	cols, err := probeColumns(ctx, db, stmt.RemoteTable)
	if err != nil {
		db.Close()
		return nil, err
	}

	t := &Table{
		Name:        stmt.Name.Name,
		dialect:     name,
		db:          db,
		RemoteTable: stmt.RemoteTable,
		Columns:     cols,
	}
	r.mu.Lock()
	r.tables[t.Name] = t
	r.mu.Unlock()
	return t, nil
}

// Drop closes and forgets a linked table, for DROP LINKED TABLE.
func (r *Registry) Drop(name string) error {
	r.mu.Lock()
	t, ok := r.tables[name]
	delete(r.tables, name)
	r.mu.Unlock()
	if !ok {
		return dberr.New(dberr.TableOrViewNotFound, "linked table %q is not open", name)
	}
	return t.Close()
}

// Get looks up an already-opened linked table by its local name.
func (r *Registry) Get(name string) (*Table, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[name]
	return t, ok
}

// probeColumns fills in LinkedColumn metadata by asking the driver for the
// column types of a zero-row result, the same "describe via a real query"
// approach the teacher takes for table/column introspection rather than
// parsing each dialect's catalog tables by hand.
func probeColumns(ctx context.Context, db *sql.DB, remoteTable string) ([]ast.LinkedColumn, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s WHERE 1 = 0", remoteTable))
	if err != nil {
		return nil, dberr.Wrap(dberr.TableOrViewNotFound, fmt.Errorf("probing remote table %q: %w", remoteTable, err))
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, dberr.Wrap(dberr.ConnectionBroken, fmt.Errorf("reading column types of %q: %w", remoteTable, err))
	}
	cols := make([]ast.LinkedColumn, len(types))
	for i, ct := range types {
		cols[i] = ast.LinkedColumn{Name: ct.Name(), Type: ct.DatabaseTypeName()}
	}
	return cols, nil
}

// Query pushes a read-only statement down to the remote connection and
// adapts the result into an engine.ResultSet, the lazy row stream the
// command runtime's ExecuteQuery hands back to the caller (spec.md §4.4
// "execute_query", GLOSSARY "Lazy result"). provider resolves any
// not-yet-materialized parameter values before they cross into the
// database/sql driver boundary (spec.md §9 "Cast-data provider").
func (t *Table) Query(ctx context.Context, sql string, args []ast.Value, provider ast.CastProvider) (engine.ResultSet, error) {
	if t.dialect == "postgres" {
		if err := ValidatePostgresSQL(sql); err != nil {
			return nil, err
		}
	}
	goArgs, err := valuesToAny(args, provider)
	if err != nil {
		return nil, err
	}
	rows, err := t.db.QueryContext(ctx, sql, goArgs...)
	if err != nil {
		return nil, dberr.Wrap(dberr.ConnectionBroken, fmt.Errorf("querying linked table %q: %w", t.Name, err))
	}
	return newRowsResultSet(rows)
}

// Exec pushes an update-shaped statement down to the remote connection.
func (t *Table) Exec(ctx context.Context, sql string, args []ast.Value, provider ast.CastProvider) (int64, error) {
	if t.dialect == "postgres" {
		if err := ValidatePostgresSQL(sql); err != nil {
			return 0, err
		}
	}
	goArgs, err := valuesToAny(args, provider)
	if err != nil {
		return 0, err
	}
	res, err := t.db.ExecContext(ctx, sql, goArgs...)
	if err != nil {
		return 0, dberr.Wrap(dberr.ConnectionBroken, fmt.Errorf("executing against linked table %q: %w", t.Name, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dberr.Wrap(dberr.ConnectionBroken, fmt.Errorf("reading affected rows from linked table %q: %w", t.Name, err))
	}
	return n, nil
}

// valuesToAny materializes every parameter Value and converts it into the
// plain Go type database/sql expects for a driver argument.
func valuesToAny(vals []ast.Value, provider ast.CastProvider) ([]any, error) {
	out := make([]any, len(vals))
	for i, v := range vals {
		resolved, err := v.Materialize(provider)
		if err != nil {
			return nil, err
		}
		out[i] = toDriverValue(resolved)
	}
	return out, nil
}

func toDriverValue(v ast.Value) any {
	switch v.Kind {
	case ast.VNull:
		return nil
	case ast.VInteger:
		return v.Int
	case ast.VBigInt:
		if v.Big != nil {
			return v.Big.String()
		}
		return nil
	case ast.VDecimal:
		return v.Dec
	case ast.VBoolean:
		return v.Bool
	case ast.VBinary:
		return v.Bytes
	case ast.VDate, ast.VTime, ast.VTimestamp, ast.VInterval:
		return v.Temporal
	case ast.VString, ast.VJSON:
		return v.Str
	default: // VRow, VArray have no driver-native representation
		return v.String()
	}
}
