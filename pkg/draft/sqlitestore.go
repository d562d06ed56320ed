package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-postwizard/pkg/schema"
)

// SQLiteSchema creates the drafts table. Callers apply it once through
// (*SQLiteStore).Init or their own migration tooling.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS drafts (
	key        TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// SQLiteStore keeps drafts in a sqlite table, upserted under the draft key.
// Open the database with the modernc.org/sqlite driver before handing it in.
type SQLiteStore struct {
	db       *sql.DB
	registry *schema.Registry
	now      func() time.Time
}

// NewSQLiteStore builds a sqlite-backed store over an already-open database.
// A nil registry falls back to the default.
func NewSQLiteStore(db *sql.DB, registry *schema.Registry) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("draft: sqlite store requires a database handle")
	}
	if registry == nil {
		registry = schema.NewRegistry()
	}
	return &SQLiteStore{db: db, registry: registry, now: time.Now}, nil
}

// Init applies the drafts table schema.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, SQLiteSchema); err != nil {
		return fmt.Errorf("draft: apply sqlite schema: %w", err)
	}
	return nil
}

// Save upserts the values under the draft key, dropping array fields if the
// payload exceeds the size ceiling.
func (s *SQLiteStore) Save(ctx context.Context, values schema.FormValues) (SaveResult, error) {
	payload, skipped, err := encodeDraft(values)
	if err != nil {
		return SaveResult{Error: err.Error()}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts (key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, DraftKey, payload, s.now().Unix())
	if err != nil {
		return SaveResult{Error: err.Error()}, fmt.Errorf("draft: upsert draft: %w", err)
	}

	return SaveResult{Success: true, BytesWritten: len(payload), SkippedFields: skipped}, nil
}

// Load reads the stored draft back. A missing row is not an error; a
// corrupt payload fails structurally with the reason in the result.
func (s *SQLiteStore) Load(ctx context.Context) (LoadResult, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM drafts WHERE key = ?`, DraftKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return LoadResult{Success: true}, nil
	}
	if err != nil {
		return LoadResult{Error: err.Error()}, fmt.Errorf("draft: query draft: %w", err)
	}

	values, err := decodeDraft(s.registry, payload)
	if err != nil {
		return LoadResult{Found: true, Error: err.Error()}, nil
	}
	return LoadResult{Success: true, Found: true, Values: values}, nil
}

// Clear deletes the stored draft row. Clearing a missing draft is a no-op.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE key = ?`, DraftKey); err != nil {
		return fmt.Errorf("draft: clear draft: %w", err)
	}
	return nil
}
