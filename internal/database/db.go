package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the SQLite database file and verifies the connection.
// _fk=1 turns on foreign key enforcement so a sentence_words row can never
// reference a missing parent.  _busy_timeout=0 disables the driver's own
// blocking wait on a locked database: lock contention must surface as
// SQLITE_BUSY so the Retryer owns the retry policy.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_fk=1&_busy_timeout=0", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings.  Handles are acquired from the pool per statement and
	// released automatically; nothing opens ad-hoc connections.  More than
	// one connection is allowed so concurrent requests can race, which is
	// exactly the contention the Retryer absorbs.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// Init applies the embedded schema to the given connection.  Statements are
// separated by ";" and executed in order; CREATE IF NOT EXISTS makes the
// call idempotent across restarts.
func Init(db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
