package draft

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-postwizard/pkg/schema"
)

// FileStore keeps the draft as a JSON document on disk, one file per draft
// key. Writes go through a temp file and rename so a crash never leaves a
// half-written draft behind.
type FileStore struct {
	dir      string
	registry *schema.Registry
}

// NewFileStore builds a file-backed store rooted at dir. A nil registry
// falls back to the default.
func NewFileStore(dir string, registry *schema.Registry) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("draft: file store directory is required")
	}
	if registry == nil {
		registry = schema.NewRegistry()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("draft: create store directory: %w", err)
	}
	return &FileStore{dir: dir, registry: registry}, nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, DraftKey+".json")
}

// Save persists the values, dropping array fields if the payload exceeds
// the size ceiling.
func (s *FileStore) Save(ctx context.Context, values schema.FormValues) (SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return SaveResult{Error: err.Error()}, err
	}

	payload, skipped, err := encodeDraft(values)
	if err != nil {
		return SaveResult{Error: err.Error()}, err
	}

	tmp, err := os.CreateTemp(s.dir, DraftKey+"-*.tmp")
	if err != nil {
		return SaveResult{Error: err.Error()}, fmt.Errorf("draft: create temp file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return SaveResult{Error: err.Error()}, fmt.Errorf("draft: write draft: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return SaveResult{Error: err.Error()}, fmt.Errorf("draft: close draft: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path()); err != nil {
		os.Remove(tmp.Name())
		return SaveResult{Error: err.Error()}, fmt.Errorf("draft: commit draft: %w", err)
	}

	return SaveResult{Success: true, BytesWritten: len(payload), SkippedFields: skipped}, nil
}

// Load reads the stored draft back. A missing file is not an error; a
// corrupt one fails structurally with the reason in the result.
func (s *FileStore) Load(ctx context.Context) (LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return LoadResult{Error: err.Error()}, err
	}

	payload, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return LoadResult{Success: true}, nil
	}
	if err != nil {
		return LoadResult{Error: err.Error()}, fmt.Errorf("draft: read draft: %w", err)
	}

	values, err := decodeDraft(s.registry, payload)
	if err != nil {
		return LoadResult{Found: true, Error: err.Error()}, nil
	}
	return LoadResult{Success: true, Found: true, Values: values}, nil
}

// Clear removes the stored draft. Clearing a missing draft is a no-op.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("draft: clear draft: %w", err)
	}
	return nil
}
