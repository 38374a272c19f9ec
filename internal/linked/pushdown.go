package linked

import (
	pgquery "github.com/pganalyze/pg_query_go/v2"

	"github.com/quilldb/quill/internal/dberr"
)

// ValidatePostgresSQL checks a pushed-down statement before it reaches a
// linked Postgres table: pg_query_go parses it with the real Postgres
// grammar (the same library database/postgres/parser.go uses to turn DDL
// into the teacher's own AST), and any parse failure is rejected here
// rather than forwarded to the remote server as opaque bytes; the text itself
// is not rewritten. This is the linked-table pushdown validation role
// SPEC_FULL.md assigns
// pg_query_go: a syntax gate on our own generated SQL text, not a second
// DDL-to-AST conversion pass (internal/parser already owns that for the
// statements this engine accepts directly).
func ValidatePostgresSQL(sql string) error {
	if _, err := pgquery.Parse(sql); err != nil {
		return dberr.Wrap(dberr.Syntax, err)
	}
	return nil
}
