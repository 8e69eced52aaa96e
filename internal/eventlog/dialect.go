package eventlog

// Dialect abstracts all database-specific SQL generation.
// Each backend (SQLite, PostgreSQL) implements this interface.
type Dialect interface {
	// DriverName returns the database/sql driver name
	// (e.g. "sqlite", "pgx").
	DriverName() string

	// DSN returns the data source name for opening a connection.
	// For SQLite this is the file path; for PostgreSQL a connection string.
	DSN(pathOrConnStr string) string

	// Placeholder returns the parameter placeholder for the given 1-based
	// index. SQLite: "?" (ignoring index), PostgreSQL: "$1", "$2", etc.
	Placeholder(index int) string

	// IDColumn returns the row identifier column name used to preserve
	// insertion order. SQLite: "rowid" (implicit), PostgreSQL: "id".
	IDColumn() string

	// CreateTableSQL returns the DDL for the activity_log table.
	CreateTableSQL() string

	// CreateIndexSQL returns DDL to create an index on a table column.
	CreateIndexSQL(indexName, tableName, column string) string

	// InsertEventSQL returns the parameterized INSERT statement for a
	// single event. The statement has 11 columns and 11 placeholders.
	InsertEventSQL() string

	// SchemaCheckColumnSQL returns a SQL query that counts how many times
	// a column appears in a table's schema. Used to verify that an opened
	// database actually holds an activity log.
	SchemaCheckColumnSQL(table, column string) string
}
