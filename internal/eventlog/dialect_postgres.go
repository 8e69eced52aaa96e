package eventlog

import "fmt"

// PostgresDialect implements the Dialect interface for PostgreSQL
// databases via the pgx stdlib driver.
//
// Timestamps are stored as TEXT in the collector's sortable layout rather
// than TIMESTAMP so that both backends scan identically and ORDER BY
// behaves the same everywhere.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string { return "pgx" }

func (d *PostgresDialect) DSN(pathOrConnStr string) string { return pathOrConnStr }

func (d *PostgresDialect) Placeholder(index int) string { return fmt.Sprintf("$%d", index) }

func (d *PostgresDialect) IDColumn() string { return "id" }

func (d *PostgresDialect) CreateTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS activity_log (
		id SERIAL PRIMARY KEY,
		ts TEXT, event_type TEXT, event_id TEXT, username TEXT,
		domain TEXT, logon_id TEXT, linked_logon_id TEXT,
		logon_type TEXT, workstation TEXT, ip_address TEXT,
		is_elevated INT DEFAULT 0
	)`
}

func (d *PostgresDialect) CreateIndexSQL(indexName, tableName, column string) string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s (%s)", indexName, tableName, column)
}

func (d *PostgresDialect) InsertEventSQL() string {
	return `INSERT INTO activity_log (
		ts, event_type, event_id, username, domain, logon_id,
		linked_logon_id, logon_type, workstation, ip_address, is_elevated
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
}

func (d *PostgresDialect) SchemaCheckColumnSQL(table, column string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM information_schema.columns WHERE table_name='%s' AND column_name='%s'",
		table, column)
}
