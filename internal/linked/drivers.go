package linked

// Blank-importing each dialect's database/sql driver registers it under the
// name linked.go's driverName switch expects, exactly as every dialect
// package in the teacher tree imports its driver for side effects alone
// (database/mysql/database.go imports go-sql-driver/mysql, database/
// postgres/database.go imports lib/pq, database/mssql/database.go imports
// a mssql driver, database/sqlite3/sqlite3.go imports a sqlite driver).
import (
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)
