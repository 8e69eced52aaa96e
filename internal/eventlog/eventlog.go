package eventlog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/felixguerrero12/SessionSentry/internal/model"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// timeLayout is the sortable text form timestamps are stored in.
// Lexicographic order equals chronological order, so ORDER BY ts behaves
// identically on every backend.
const timeLayout = "2006-01-02 15:04:05"

// Columns indexed when creating a new database.
var defaultIndexFields = []string{"ts", "username", "logon_id"}

// DB manages one event log database. It implements the Store interface
// and the event-source contract the query surface consumes.
type DB struct {
	path    string
	conn    *sql.DB
	dialect Dialect
}

// open connects to an existing event log database and verifies that it
// holds an activity_log table.
func open(d Dialect, pathOrConnStr string) (*DB, error) {
	conn, err := sql.Open(d.DriverName(), d.DSN(pathOrConnStr))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db := &DB{path: pathOrConnStr, conn: conn, dialect: d}

	var count int
	err = conn.QueryRow(d.SchemaCheckColumnSQL("activity_log", "logon_id")).Scan(&count)
	if err != nil || count == 0 {
		conn.Close()
		return nil, fmt.Errorf("not an activity log database: %s", pathOrConnStr)
	}

	return db, nil
}

// create connects and builds the activity_log schema.
func create(d Dialect, pathOrConnStr string) (*DB, error) {
	conn, err := sql.Open(d.DriverName(), d.DSN(pathOrConnStr))
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	db := &DB{path: pathOrConnStr, conn: conn, dialect: d}

	if err := db.createSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return db, nil
}

func (db *DB) createSchema() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(db.dialect.CreateTableSQL()); err != nil {
		return fmt.Errorf("creating activity_log table: %w", err)
	}

	for _, field := range defaultIndexFields {
		_, err := tx.Exec(db.dialect.CreateIndexSQL(field+"_idx", "activity_log", field))
		if err != nil {
			return fmt.Errorf("creating index on %s: %w", field, err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Path returns the file path or connection string of the database.
func (db *DB) Path() string {
	return db.path
}

// InsertEvents inserts a batch of events inside a single transaction.
// The onProgress callback is called every 10,000 events with the current
// count. Pass nil for onProgress if you don't need progress updates.
func (db *DB) InsertEvents(events []*model.Event, onProgress func(count int)) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(db.dialect.InsertEventSQL())
	if err != nil {
		return 0, fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range events {
		_, err := stmt.Exec(
			e.Timestamp.Format(timeLayout), e.EventType, e.EventID,
			e.Username, e.Domain, e.LogonID, e.LinkedLogonID,
			e.LogonType, e.Workstation, e.IPAddress, boolToInt(e.IsElevated),
		)
		if err != nil {
			return inserted, fmt.Errorf("inserting event %d: %w", inserted+1, err)
		}
		inserted++
		if onProgress != nil && inserted%10000 == 0 {
			onProgress(inserted)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("committing transaction: %w", err)
	}

	return inserted, nil
}

// LoadEvents returns every stored event ordered by timestamp, insertion
// order for ties. The reconstructor relies on that tie-break, so the row
// id is always the secondary sort key.
func (db *DB) LoadEvents() ([]*model.Event, error) {
	query := "SELECT ts, event_type, event_id, username, domain, logon_id, " +
		"linked_logon_id, logon_type, workstation, ip_address, is_elevated " +
		"FROM activity_log ORDER BY ts, " + db.dialect.IDColumn()

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e := &model.Event{}
		var ts string
		var elevated int
		err := rows.Scan(
			&ts, &e.EventType, &e.EventID, &e.Username, &e.Domain,
			&e.LogonID, &e.LinkedLogonID, &e.LogonType, &e.Workstation,
			&e.IPAddress, &elevated,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		e.Timestamp, err = time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing stored timestamp %q: %w", ts, err)
		}
		e.IsElevated = elevated != 0
		events = append(events, e)
	}

	return events, rows.Err()
}

// CountEvents returns the total number of stored events.
func (db *DB) CountEvents() (int64, error) {
	var count int64
	err := db.conn.QueryRow("SELECT COUNT(*) FROM activity_log").Scan(&count)
	return count, err
}

// DistinctUsers returns the unique non-empty usernames, sorted.
func (db *DB) DistinctUsers() ([]string, error) {
	rows, err := db.conn.Query(
		"SELECT DISTINCT username FROM activity_log WHERE username <> '' ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// MinMaxTimestamp returns the earliest and latest event timestamps,
// or empty strings for an empty store.
func (db *DB) MinMaxTimestamp() (minTS, maxTS string, err error) {
	err = db.conn.QueryRow(
		"SELECT COALESCE(min(ts), ''), COALESCE(max(ts), '') FROM activity_log",
	).Scan(&minTS, &maxTS)
	return
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
