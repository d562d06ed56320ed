package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-postwizard/pkg/schema"
)

func TestDefaultsAreTotal(t *testing.T) {
	registry := schema.NewRegistry()
	defaults := registry.Defaults()

	for _, name := range registry.FieldNames() {
		value, ok := defaults.Get(name)
		if !ok {
			t.Fatalf("expected default for field %q", name)
		}
		fieldType, _ := registry.FieldType(name)
		switch fieldType {
		case schema.FieldTypeString:
			if _, isString := value.(string); !isString {
				t.Fatalf("expected string default for %q, got %T", name, value)
			}
		case schema.FieldTypeArray:
			items, isSlice := value.([]string)
			if !isSlice {
				t.Fatalf("expected []string default for %q, got %T", name, value)
			}
			if items == nil {
				t.Fatalf("expected non-nil array default for %q", name)
			}
		case schema.FieldTypeBoolean:
			if _, isBool := value.(bool); !isBool {
				t.Fatalf("expected bool default for %q, got %T", name, value)
			}
		case schema.FieldTypeNullableString:
			if value != nil {
				t.Fatalf("expected nil default for %q, got %v", name, value)
			}
		}
	}
}

func TestFieldGroupAccessors(t *testing.T) {
	registry := schema.NewRegistry()

	if len(registry.FieldNames()) != 14 {
		t.Fatalf("expected 14 fields, got %d", len(registry.FieldNames()))
	}
	if len(registry.StringFields()) != 7 {
		t.Fatalf("expected 7 string fields, got %d", len(registry.StringFields()))
	}
	if len(registry.ArrayFields()) != 3 {
		t.Fatalf("expected 3 array fields, got %d", len(registry.ArrayFields()))
	}
	if len(registry.BooleanFields()) != 3 {
		t.Fatalf("expected 3 boolean fields, got %d", len(registry.BooleanFields()))
	}
	if diff := cmp.Diff([]string{schema.FieldEmail}, registry.EmailFields()); diff != "" {
		t.Fatalf("email fields mismatch (-want +got):\n%s", diff)
	}
	if len(registry.RequiredFields()) != 6 {
		t.Fatalf("expected 6 required fields, got %d", len(registry.RequiredFields()))
	}

	fieldType, ok := registry.FieldType(schema.FieldMainImage)
	if !ok || fieldType != schema.FieldTypeNullableString {
		t.Fatalf("expected mainImage to be nullable_string, got %q", fieldType)
	}
	if _, ok := registry.FieldType("unknown"); ok {
		t.Fatalf("expected unknown field to be absent")
	}
}

func TestResolve(t *testing.T) {
	registry := schema.NewRegistry()

	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"title", "title", true},
		{"postTitle", "title", true},
		{"POST_TITLE", "title", true},
		{"main_image", "mainImage", true},
		{"slider-images", "sliderImages", true},
		{"editor", "isEditorCompleted", true},
		{"editorCompleted", "isEditorCompleted", true},
		{"agree_terms", "agreeToTerms", true},
		{"completelyUnknown", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := registry.Resolve(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("Resolve(%q): expected (%q, %v), got (%q, %v)", tc.input, tc.want, tc.ok, got, ok)
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	registry := schema.NewRegistry()
	first, ok := registry.Resolve("editorContent")
	if !ok {
		t.Fatalf("expected editorContent to resolve")
	}
	for i := 0; i < 10; i++ {
		got, ok := registry.Resolve("editorContent")
		if !ok || got != first {
			t.Fatalf("expected stable resolution, got %q on pass %d", got, i)
		}
	}
}

func TestNewRegistryFromSpecsRejectsCollisions(t *testing.T) {
	identity := func(v any) any { return v }

	_, err := schema.NewRegistryFromSpecs([]schema.FieldSpec{
		{Name: "title", Type: schema.FieldTypeString, Process: identity},
		{Name: "title", Type: schema.FieldTypeString, Process: identity},
	})
	if err == nil {
		t.Fatalf("expected duplicate field name to fail")
	}

	_, err = schema.NewRegistryFromSpecs([]schema.FieldSpec{
		{Name: "title", Type: schema.FieldTypeString, Process: identity},
		{Name: "summary", Type: schema.FieldTypeString, Aliases: []string{"TITLE"}, Process: identity},
	})
	if err == nil {
		t.Fatalf("expected alias collision to fail")
	}

	if _, err := schema.NewRegistryFromSpecs(nil); err == nil {
		t.Fatalf("expected empty spec list to fail")
	}
}
