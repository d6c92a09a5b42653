package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// OpenLocal opens the on-device sqlite database backing the scoped store and
// applies its migrations. Use ":memory:" for a throwaway store.
func OpenLocal(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	if path == ":memory:" || strings.HasPrefix(path, "file::memory:") {
		dsn = "file::memory:?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening local database: %w", err)
	}

	// sqlite serialises writers; a single connection also keeps ":memory:" to one database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging local database: %w", err)
	}

	if err := MigrateLocal(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
