package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Elandig/tabscribe/internal/app/repository"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS recordings (
	id            TEXT PRIMARY KEY,
	title         TEXT    NOT NULL DEFAULT '',
	source        TEXT    NOT NULL DEFAULT '',
	mime_type     TEXT    NOT NULL DEFAULT '',
	media_key     TEXT    NOT NULL DEFAULT '',
	size_bytes    INTEGER NOT NULL DEFAULT 0,
	duration_ms   INTEGER NOT NULL DEFAULT 0,
	created_at    INTEGER NOT NULL DEFAULT 0,
	transcription TEXT
);
CREATE INDEX IF NOT EXISTS idx_recordings_created_at ON recordings (created_at);
`

// SQLiteDB is the default on-disk recording store
type SQLiteDB struct {
	*repository.CommonDB
}

// NewSQLiteDB opens (creating if needed) the database file and ensures the schema.
// Transactions take the write lock up front so concurrent updates queue
// instead of failing with SQLITE_BUSY on upgrade.
func NewSQLiteDB(dbFilePath string) (*SQLiteDB, error) {
	if dbFilePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbFilePath), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_busy_timeout=5000&_txlock=immediate", dbFilePath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteDB{CommonDB: repository.NewCommonDB(db, "sqlite3")}, nil
}
