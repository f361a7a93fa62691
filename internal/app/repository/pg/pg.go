package pg

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/Elandig/tabscribe/internal/app/repository"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS recordings (
	id            TEXT PRIMARY KEY,
	title         TEXT   NOT NULL DEFAULT '',
	source        TEXT   NOT NULL DEFAULT '',
	mime_type     TEXT   NOT NULL DEFAULT '',
	media_key     TEXT   NOT NULL DEFAULT '',
	size_bytes    BIGINT NOT NULL DEFAULT 0,
	duration_ms   BIGINT NOT NULL DEFAULT 0,
	created_at    BIGINT NOT NULL DEFAULT 0,
	transcription TEXT
);
CREATE INDEX IF NOT EXISTS idx_recordings_created_at ON recordings (created_at);
`

// PostgresDB is the PostgreSQL recording store. Update locks the row with SELECT ... FOR UPDATE.
type PostgresDB struct {
	*repository.CommonDB
}

// NewPostgresDB opens a connection pool. Nothing is sent to the server until Migrate or the first query.
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}
	return newPostgresDB(db), nil
}

func newPostgresDB(db *sql.DB) *PostgresDB {
	return &PostgresDB{CommonDB: repository.NewCommonDB(db, "postgres")}
}

// Migrate creates the recordings table when it does not exist
func (pdb *PostgresDB) Migrate(ctx context.Context) error {
	if _, err := pdb.DB().ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}
