package database

import (
	"database/sql"
	"testing"
)

func TestInitCreatesSchema(t *testing.T) {
	db, err := sql.Open("sqlite3", "file::memory:?_fk=1")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	// Single connection so every statement sees the same in-memory DB.
	db.SetMaxOpenConns(1)

	if err := Init(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	// Running again must be a no-op thanks to IF NOT EXISTS.
	if err := Init(db); err != nil {
		t.Fatalf("re-init schema: %v", err)
	}

	for _, table := range []string{"users", "idioms_words", "sentences", "sentence_words"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestSchemaEnforcesNaturalKeys(t *testing.T) {
	db, err := sql.Open("sqlite3", "file::memory:?_fk=1")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	if err := Init(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	if _, err := db.Exec("INSERT INTO users (username, password, created_at, updated_at) VALUES ('alice','x','2026-01-01','2026-01-01')"); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := db.Exec("INSERT INTO users (username, password, created_at, updated_at) VALUES ('alice','y','2026-01-01','2026-01-01')"); err == nil {
		t.Fatal("expected unique violation on duplicate username")
	}

	const iw = "INSERT INTO idioms_words (text, type, meaning_ja, user_id, created_at, updated_at) VALUES ('break the ice','idiom','緊張を解く',1,'2026-01-01','2026-01-01')"
	if _, err := db.Exec(iw); err != nil {
		t.Fatalf("insert idiom word: %v", err)
	}
	if _, err := db.Exec(iw); err == nil {
		t.Fatal("expected unique violation on duplicate (text, type, user_id)")
	}
}
