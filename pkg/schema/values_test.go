package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-postwizard/pkg/schema"
)

func TestNormalizeCoercion(t *testing.T) {
	raw := map[string]any{
		"nickname":          "writer",
		"email":             "a@b.com",
		"title":             42,
		"description":       "   ",
		"tags":              []any{"go", 7, "blog"},
		"media":             "not-an-array",
		"mainImage":         "  ",
		"allowComments":     "yes",
		"isEditorCompleted": 1,
		"agreeToTerms":      "nope",
		"unknownField":      "dropped",
	}

	values := schema.Normalize(raw)

	if values.Nickname != "writer" || values.Email != "a@b.com" {
		t.Fatalf("expected string fields to pass through, got %+v", values)
	}
	if values.Title != "" {
		t.Fatalf("expected non-string title to coerce to empty, got %q", values.Title)
	}
	if values.Description != "" {
		t.Fatalf("expected blank description to coerce to empty, got %q", values.Description)
	}
	if diff := cmp.Diff([]string{"go", "blog"}, values.Tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if len(values.Media) != 0 || values.Media == nil {
		t.Fatalf("expected non-array media to coerce to empty slice, got %#v", values.Media)
	}
	if values.MainImage != nil {
		t.Fatalf("expected blank main image to coerce to nil")
	}
	if !values.AllowComments {
		t.Fatalf("expected \"yes\" to coerce to true")
	}
	if !values.IsEditorCompleted {
		t.Fatalf("expected nonzero number to coerce to true")
	}
	if values.AgreeToTerms {
		t.Fatalf("expected \"nope\" to coerce to false")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := map[string]any{
		"nickname":      "writer",
		"title":         "  Hello  ",
		"tags":          []any{"go", 1, "blog"},
		"mainImage":     "cover.png",
		"allowComments": "on",
	}

	once := schema.Normalize(raw)
	twice := schema.Normalize(once.Map())

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("expected normalization to be idempotent (-once +twice):\n%s", diff)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	values := schema.Normalize(nil)
	if diff := cmp.Diff(schema.Defaults(), values); diff != "" {
		t.Fatalf("expected defaults for nil input (-want +got):\n%s", diff)
	}
}

func TestSetRejectsUnknownField(t *testing.T) {
	values := schema.Defaults()
	if values.Set("nonexistent", "x") {
		t.Fatalf("expected unknown field set to report false")
	}
	if !values.Set(schema.FieldTitle, "Hello") {
		t.Fatalf("expected known field set to report true")
	}
	if values.Title != "Hello" {
		t.Fatalf("expected title to be assigned, got %q", values.Title)
	}
}

func TestGetMainImage(t *testing.T) {
	values := schema.Defaults()
	got, ok := values.Get(schema.FieldMainImage)
	if !ok || got != nil {
		t.Fatalf("expected unset main image to read as nil, got %v", got)
	}

	values.Set(schema.FieldMainImage, "cover.png")
	got, _ = values.Get(schema.FieldMainImage)
	if got != "cover.png" {
		t.Fatalf("expected cover.png, got %v", got)
	}
}
