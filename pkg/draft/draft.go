// Package draft persists wizard form values so an interrupted session can
// resume. Drafts live under a single fixed key; oversized payloads fall back
// to text fields only, and corrupt stored data surfaces as a structured
// failure instead of an error.
package draft

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-postwizard/pkg/schema"
)

// DraftKey is the single storage key drafts are kept under.
const DraftKey = "formDraft"

// MaxDraftBytes is the soft ceiling on a serialized draft. A payload above
// it is retried with the array fields dropped.
const MaxDraftBytes = 500 * 1024

// SaveResult reports a save outcome. SkippedFields lists fields dropped to
// fit the size ceiling.
type SaveResult struct {
	Success       bool
	BytesWritten  int
	SkippedFields []string
	Error         string
}

// LoadResult reports a load outcome. Found is false when no draft exists;
// corrupt or unrecognizable payloads set Success false with a reason.
type LoadResult struct {
	Success bool
	Found   bool
	Values  schema.FormValues
	Error   string
}

// Store is the draft persistence capability.
type Store interface {
	Save(ctx context.Context, values schema.FormValues) (SaveResult, error)
	Load(ctx context.Context) (LoadResult, error)
	Clear(ctx context.Context) error
}

// encodeDraft serializes the values, dropping non-empty array fields when
// the full payload exceeds the ceiling. The returned names list what was
// dropped.
func encodeDraft(values schema.FormValues) ([]byte, []string, error) {
	payload, err := json.Marshal(values)
	if err != nil {
		return nil, nil, fmt.Errorf("draft: encode values: %w", err)
	}
	if len(payload) <= MaxDraftBytes {
		return payload, nil, nil
	}

	var skipped []string
	reduced := values
	if len(reduced.Tags) > 0 {
		skipped = append(skipped, schema.FieldTags)
		reduced.Tags = []string{}
	}
	if len(reduced.Media) > 0 {
		skipped = append(skipped, schema.FieldMedia)
		reduced.Media = []string{}
	}
	if len(reduced.SliderImages) > 0 {
		skipped = append(skipped, schema.FieldSliderImages)
		reduced.SliderImages = []string{}
	}

	payload, err = json.Marshal(reduced)
	if err != nil {
		return nil, nil, fmt.Errorf("draft: encode reduced values: %w", err)
	}
	return payload, skipped, nil
}

// decodeDraft parses a stored payload, validating its keys against the
// registry before normalizing. Unknown keys mark the draft corrupt.
func decodeDraft(registry *schema.Registry, payload []byte) (schema.FormValues, error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return schema.FormValues{}, fmt.Errorf("draft: parse stored payload: %w", err)
	}
	if len(raw) == 0 {
		return schema.FormValues{}, fmt.Errorf("draft: stored payload is empty")
	}

	for key := range raw {
		if _, ok := registry.FieldType(key); !ok {
			return schema.FormValues{}, fmt.Errorf("draft: stored payload has unknown field %q", key)
		}
	}
	return schema.Normalize(raw), nil
}
