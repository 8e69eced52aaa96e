package eventlog

import "fmt"

// SQLiteDialect implements the Dialect interface for SQLite databases.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string { return "sqlite" }

func (d *SQLiteDialect) DSN(pathOrConnStr string) string { return pathOrConnStr }

func (d *SQLiteDialect) Placeholder(index int) string { return "?" }

func (d *SQLiteDialect) IDColumn() string { return "rowid" }

func (d *SQLiteDialect) CreateTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS activity_log (
		ts TEXT, event_type TEXT, event_id TEXT, username TEXT,
		domain TEXT, logon_id TEXT, linked_logon_id TEXT,
		logon_type TEXT, workstation TEXT, ip_address TEXT,
		is_elevated INT DEFAULT 0
	)`
}

func (d *SQLiteDialect) CreateIndexSQL(indexName, tableName, column string) string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s (%s)", indexName, tableName, column)
}

func (d *SQLiteDialect) InsertEventSQL() string {
	return `INSERT INTO activity_log (
		ts, event_type, event_id, username, domain, logon_id,
		linked_logon_id, logon_type, workstation, ip_address, is_elevated
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
}

func (d *SQLiteDialect) SchemaCheckColumnSQL(table, column string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM pragma_table_info('%s') WHERE name='%s'", table, column)
}
