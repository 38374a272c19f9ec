// Package ast holds the typed command model: the statement-kind taxonomy
// (Ty in spec.md §2), the literal value union, parameters, and the
// discriminated Prepared statement variants the parser (internal/parser)
// produces and the command runtime (internal/command) executes.
package ast

// Kind is the stable, closed statement-kind enumeration of spec.md §6.
// Client tooling depends on these numbers; once assigned a Kind must never
// be renumbered. Categories: UNKNOWN=0, DDL 1..53/85..90/92..105,
// DML 54..68, transaction/admin 69..84/91.
type Kind int

const (
	UNKNOWN Kind = 0

	// DDL: 1..53
	ALTER_TABLE_ADD_COLUMN    Kind = 7
	ALTER_TABLE_ALTER_COLUMN  Kind = 8
	ALTER_TABLE_DROP_COLUMN   Kind = 9
	ALTER_TABLE_RENAME        Kind = 10
	ALTER_TABLE_ADD_CONSTRAINT Kind = 11
	ALTER_TABLE_DROP_CONSTRAINT Kind = 12
	ALTER_VIEW                Kind = 13
	ALTER_INDEX               Kind = 14
	ALTER_SCHEMA              Kind = 15
	ALTER_SEQUENCE            Kind = 16
	ALTER_DOMAIN              Kind = 17
	ALTER_USER                Kind = 18
	CREATE_SCHEMA             Kind = 20
	CREATE_SEQUENCE           Kind = 21
	CREATE_CONSTANT           Kind = 22
	CREATE_DOMAIN             Kind = 23
	CREATE_ROLE               Kind = 24
	CREATE_USER               Kind = 25
	CREATE_ALIAS              Kind = 26
	CREATE_TRIGGER            Kind = 27
	CREATE_SYNONYM            Kind = 28
	CREATE_AGGREGATE          Kind = 29
	CREATE_TABLE              Kind = 30
	CREATE_VIEW               Kind = 31
	CREATE_INDEX              Kind = 32
	CREATE_MATERIALIZED_VIEW  Kind = 33
	CREATE_LINKED_TABLE       Kind = 34
	DROP_TABLE                Kind = 40
	DROP_VIEW                 Kind = 41
	DROP_INDEX                Kind = 42
	DROP_SCHEMA               Kind = 43
	DROP_SEQUENCE             Kind = 44
	DROP_CONSTANT             Kind = 45
	DROP_DOMAIN               Kind = 46
	DROP_ROLE                 Kind = 47
	DROP_USER                 Kind = 48
	DROP_ALIAS                Kind = 49
	DROP_TRIGGER              Kind = 50
	DROP_SYNONYM              Kind = 51
	DROP_AGGREGATE            Kind = 52
	DROP_MATERIALIZED_VIEW    Kind = 53

	// DML: 54..68
	TRUNCATE_TABLE Kind = 54
	ANALYZE        Kind = 55
	BACKUP         Kind = 56
	COMMENT        Kind = 57
	DELETE         Kind = 58
	EXPLAIN        Kind = 59
	GRANT          Kind = 60
	INSERT         Kind = 61
	MERGE          Kind = 62
	REVOKE         Kind = 63
	CALL           Kind = 64
	VALUES         Kind = 65
	SELECT         Kind = 66
	TABLE          Kind = 67
	UPDATE         Kind = 68

	// Transaction/admin: 69..84
	BEGIN          Kind = 69
	COMMIT         Kind = 71
	ROLLBACK       Kind = 72
	ROLLBACK_TO    Kind = 73
	SAVEPOINT      Kind = 74
	RELEASE        Kind = 75
	PREPARE_COMMIT Kind = 76
	CHECKPOINT     Kind = 77
	SET            Kind = 78
	SHOW           Kind = 79
	SHUTDOWN       Kind = 80
	RUNSCRIPT      Kind = 81
	SCRIPT         Kind = 82
	HELP           Kind = 83
	USE            Kind = 84

	// DDL tail: 85..90
	DROP_LINKED_TABLE Kind = 85
	CREATE_COMMENT    Kind = 86

	// Transaction/admin tail: 91
	NO_OPERATION Kind = 91

	// DML tail: 92..105
	REPLACE Kind = 92
)

var kindNames = map[Kind]string{
	UNKNOWN: "UNKNOWN",
	ALTER_TABLE_ADD_COLUMN: "ALTER_TABLE_ADD_COLUMN", ALTER_TABLE_ALTER_COLUMN: "ALTER_TABLE_ALTER_COLUMN",
	ALTER_TABLE_DROP_COLUMN: "ALTER_TABLE_DROP_COLUMN", ALTER_TABLE_RENAME: "ALTER_TABLE_RENAME",
	ALTER_TABLE_ADD_CONSTRAINT: "ALTER_TABLE_ADD_CONSTRAINT", ALTER_TABLE_DROP_CONSTRAINT: "ALTER_TABLE_DROP_CONSTRAINT",
	ALTER_VIEW: "ALTER_VIEW", ALTER_INDEX: "ALTER_INDEX", ALTER_SCHEMA: "ALTER_SCHEMA",
	ALTER_SEQUENCE: "ALTER_SEQUENCE", ALTER_DOMAIN: "ALTER_DOMAIN", ALTER_USER: "ALTER_USER",
	CREATE_SCHEMA: "CREATE_SCHEMA", CREATE_SEQUENCE: "CREATE_SEQUENCE", CREATE_CONSTANT: "CREATE_CONSTANT",
	CREATE_DOMAIN: "CREATE_DOMAIN", CREATE_ROLE: "CREATE_ROLE", CREATE_USER: "CREATE_USER",
	CREATE_ALIAS: "CREATE_ALIAS", CREATE_TRIGGER: "CREATE_TRIGGER", CREATE_SYNONYM: "CREATE_SYNONYM",
	CREATE_AGGREGATE: "CREATE_AGGREGATE", CREATE_TABLE: "CREATE_TABLE", CREATE_VIEW: "CREATE_VIEW",
	CREATE_INDEX: "CREATE_INDEX", CREATE_MATERIALIZED_VIEW: "CREATE_MATERIALIZED_VIEW",
	CREATE_LINKED_TABLE: "CREATE_LINKED_TABLE",
	DROP_TABLE: "DROP_TABLE", DROP_VIEW: "DROP_VIEW", DROP_INDEX: "DROP_INDEX", DROP_SCHEMA: "DROP_SCHEMA",
	DROP_SEQUENCE: "DROP_SEQUENCE", DROP_CONSTANT: "DROP_CONSTANT", DROP_DOMAIN: "DROP_DOMAIN",
	DROP_ROLE: "DROP_ROLE", DROP_USER: "DROP_USER", DROP_ALIAS: "DROP_ALIAS", DROP_TRIGGER: "DROP_TRIGGER",
	DROP_SYNONYM: "DROP_SYNONYM", DROP_AGGREGATE: "DROP_AGGREGATE", DROP_MATERIALIZED_VIEW: "DROP_MATERIALIZED_VIEW",
	TRUNCATE_TABLE: "TRUNCATE_TABLE", ANALYZE: "ANALYZE", BACKUP: "BACKUP", COMMENT: "COMMENT",
	DELETE: "DELETE", EXPLAIN: "EXPLAIN", GRANT: "GRANT", INSERT: "INSERT", MERGE: "MERGE",
	REVOKE: "REVOKE", CALL: "CALL", VALUES: "VALUES", SELECT: "SELECT", TABLE: "TABLE", UPDATE: "UPDATE",
	BEGIN: "BEGIN", COMMIT: "COMMIT", ROLLBACK: "ROLLBACK", ROLLBACK_TO: "ROLLBACK_TO",
	SAVEPOINT: "SAVEPOINT", RELEASE: "RELEASE", PREPARE_COMMIT: "PREPARE_COMMIT", CHECKPOINT: "CHECKPOINT",
	SET: "SET", SHOW: "SHOW", SHUTDOWN: "SHUTDOWN", RUNSCRIPT: "RUNSCRIPT", SCRIPT: "SCRIPT",
	HELP: "HELP", USE: "USE", DROP_LINKED_TABLE: "DROP_LINKED_TABLE", CREATE_COMMENT: "CREATE_COMMENT",
	NO_OPERATION: "NO_OPERATION", REPLACE: "REPLACE",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// ddlKinds and dmlKinds back the capability traits below. The source
// material overloads NO_OPERATION and REPLACE onto one numeric value; this
// reimplementation keeps them distinct (see DESIGN.md, spec.md §9 Open
// Questions) and classifies each on its own merits instead.
var dmlKinds = map[Kind]bool{
	TRUNCATE_TABLE: true, DELETE: true, INSERT: true, MERGE: true,
	VALUES: true, SELECT: true, TABLE: true, UPDATE: true, REPLACE: true,
}

var queryKinds = map[Kind]bool{
	SELECT: true, TABLE: true, VALUES: true, SHOW: true, EXPLAIN: true, HELP: true,
}

var retryableKinds = map[Kind]bool{
	INSERT: true, UPDATE: true, DELETE: true, MERGE: true, REPLACE: true, TRUNCATE_TABLE: true,
}

// IsDDL reports whether k is a schema-mutating statement kind.
func (k Kind) IsDDL() bool {
	return !dmlKinds[k] && !isTransactionOrAdmin(k) && k != UNKNOWN
}

func isTransactionOrAdmin(k Kind) bool {
	switch k {
	case BEGIN, COMMIT, ROLLBACK, ROLLBACK_TO, SAVEPOINT, RELEASE, PREPARE_COMMIT,
		CHECKPOINT, SET, SHOW, SHUTDOWN, RUNSCRIPT, SCRIPT, HELP, USE, NO_OPERATION,
		CALL, GRANT, REVOKE, COMMENT, ANALYZE, BACKUP, EXPLAIN:
		return true
	}
	return false
}

// IsQuery reports whether execution of k yields a row result (valid target
// for Command.ExecuteQuery, spec.md §4.4).
func (k Kind) IsQuery() bool { return queryKinds[k] }

// IsRetryable reports whether k's Prepared is safe to re-execute after a
// concurrency conflict: all DML is retryable, DDL never is (spec.md §3
// Prepared statement invariants, GLOSSARY "Retryable statement").
func (k Kind) IsRetryable() bool { return retryableKinds[k] }

// IsTransactional reports whether k participates in the surrounding
// transaction rather than forcing an implicit commit on Command.Stop
// (spec.md §4.4 "stop() commits if the statement is non-transactional").
// DDL is never transactional; everything else is.
func (k Kind) IsTransactional() bool { return !k.IsDDL() }
