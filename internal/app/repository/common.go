package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/model"
)

// CommonDB implements RecordingStore on database/sql for any dialect
// that supports INSERT ... ON CONFLICT. The transcription job is stored
// as a JSON document next to the recording columns.
type CommonDB struct {
	db           *sql.DB
	driverName   string
	placeholders PlaceholderFunc
	lockClause   string
}

// PlaceholderFunc generates parameter placeholders for different SQL dialects
type PlaceholderFunc func(n int) string

const recordingColumns = `id, title, source, mime_type, media_key, size_bytes, duration_ms, created_at, transcription`

// NewCommonDB creates a new CommonDB instance
func NewCommonDB(db *sql.DB, driverName string) *CommonDB {
	c := &CommonDB{
		db:         db,
		driverName: driverName,
	}

	switch driverName {
	case "postgres":
		c.placeholders = func(n int) string { return fmt.Sprintf("$%d", n) }
		c.lockClause = " FOR UPDATE"
	default:
		c.placeholders = func(n int) string { return "?" }
	}

	return c
}

// Put inserts or replaces a recording
func (c *CommonDB) Put(ctx context.Context, rec *model.Recording) error {
	if rec == nil || rec.ID == "" {
		return errors.New("recording id is required")
	}

	args, err := recordingArgs(rec)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		`INSERT INTO recordings (%s) VALUES (%s)
		 ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			source = excluded.source,
			mime_type = excluded.mime_type,
			media_key = excluded.media_key,
			size_bytes = excluded.size_bytes,
			duration_ms = excluded.duration_ms,
			created_at = excluded.created_at,
			transcription = excluded.transcription`,
		recordingColumns, c.params(1, len(args)),
	)

	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "insert failed")
	}
	return nil
}

// Get returns a recording by id
func (c *CommonDB) Get(ctx context.Context, id string) (*model.Recording, error) {
	query := fmt.Sprintf(`SELECT %s FROM recordings WHERE id = %s`, recordingColumns, c.placeholders(1))

	rec, err := scanRecording(c.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "id %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "query failed")
	}
	return rec, nil
}

// GetAll returns every recording, newest first
func (c *CommonDB) GetAll(ctx context.Context) ([]*model.Recording, error) {
	query := fmt.Sprintf(`SELECT %s FROM recordings ORDER BY created_at DESC, id ASC`, recordingColumns)

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query failed")
	}
	defer rows.Close()

	recordings := make([]*model.Recording, 0)
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan failed")
		}
		recordings = append(recordings, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}

	return recordings, nil
}

// Update applies fn to the stored recording inside a transaction
func (c *CommonDB) Update(ctx context.Context, id string, fn UpdateFunc) (*model.Recording, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin failed")
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`SELECT %s FROM recordings WHERE id = %s%s`, recordingColumns, c.placeholders(1), c.lockClause)
	rec, err := scanRecording(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "id %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "query failed")
	}

	if err := fn(rec); err != nil {
		return nil, err
	}
	rec.ID = id

	args, err := recordingArgs(rec)
	if err != nil {
		return nil, err
	}

	// args[0] is the id; the SET list covers the rest in column order
	update := fmt.Sprintf(
		`UPDATE recordings SET title = %s, source = %s, mime_type = %s, media_key = %s,
			size_bytes = %s, duration_ms = %s, created_at = %s, transcription = %s
		 WHERE id = %s`,
		c.placeholders(1), c.placeholders(2), c.placeholders(3), c.placeholders(4),
		c.placeholders(5), c.placeholders(6), c.placeholders(7), c.placeholders(8),
		c.placeholders(9),
	)
	if _, err := tx.ExecContext(ctx, update, append(args[1:], args[0])...); err != nil {
		return nil, errors.Wrap(err, "update failed")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit failed")
	}
	return rec, nil
}

// Delete removes a recording
func (c *CommonDB) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM recordings WHERE id = %s`, c.placeholders(1))

	res, err := c.db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.Wrap(err, "delete failed")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(ErrNotFound, "id %s", id)
	}
	return nil
}

// Clear removes every recording
func (c *CommonDB) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM recordings`); err != nil {
		return errors.Wrap(err, "clear failed")
	}
	return nil
}

// Close closes the database connection
func (c *CommonDB) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DB returns the underlying database connection
func (c *CommonDB) DB() *sql.DB {
	return c.db
}

func (c *CommonDB) params(from, n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = c.placeholders(from + i)
	}
	return strings.Join(p, ", ")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecording(row rowScanner) (*model.Recording, error) {
	var (
		rec           model.Recording
		source        string
		durationMs    int64
		createdAtMs   int64
		transcription sql.NullString
	)

	err := row.Scan(&rec.ID, &rec.Title, &source, &rec.MimeType, &rec.MediaKey,
		&rec.SizeBytes, &durationMs, &createdAtMs, &transcription)
	if err != nil {
		return nil, err
	}

	rec.Source = model.RecordingSource(source)
	rec.Duration = time.Duration(durationMs) * time.Millisecond
	rec.CreatedAt = time.UnixMilli(createdAtMs).UTC()

	if transcription.Valid && transcription.String != "" {
		var job model.TranscriptionJob
		if err := json.Unmarshal([]byte(transcription.String), &job); err != nil {
			return nil, fmt.Errorf("decode transcription of %s: %w", rec.ID, err)
		}
		rec.Transcription = &job
	}

	return &rec, nil
}

func recordingArgs(rec *model.Recording) ([]interface{}, error) {
	var transcription interface{}
	if rec.Transcription != nil {
		data, err := json.Marshal(rec.Transcription)
		if err != nil {
			return nil, errors.Wrap(err, "encode transcription")
		}
		transcription = string(data)
	}

	return []interface{}{
		rec.ID,
		rec.Title,
		string(rec.Source),
		rec.MimeType,
		rec.MediaKey,
		rec.SizeBytes,
		rec.Duration.Milliseconds(),
		rec.CreatedAt.UnixMilli(),
		transcription,
	}, nil
}

var _ RecordingStore = (*CommonDB)(nil)
