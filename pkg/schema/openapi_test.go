package schema_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-postwizard/pkg/schema"
)

const openapiDoc = `openapi: 3.0.3
info:
  title: Post Wizard
  version: 1.0.0
paths: {}
components:
  schemas:
    PostDraft:
      type: object
      required: [title, authorEmail]
      properties:
        title:
          type: string
        authorEmail:
          type: string
          format: email
        coverImage:
          type: string
          nullable: true
        tags:
          type: array
          items:
            type: string
        published:
          type: boolean
`

func TestRegistryFromOpenAPI(t *testing.T) {
	registry, err := schema.RegistryFromOpenAPI(context.Background(), []byte(openapiDoc), "PostDraft")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(registry.FieldNames()) != 5 {
		t.Fatalf("expected 5 fields, got %d", len(registry.FieldNames()))
	}

	fieldType, ok := registry.FieldType("coverImage")
	if !ok || fieldType != schema.FieldTypeNullableString {
		t.Fatalf("expected coverImage to be nullable_string, got %q", fieldType)
	}
	fieldType, _ = registry.FieldType("tags")
	if fieldType != schema.FieldTypeArray {
		t.Fatalf("expected tags to be array, got %q", fieldType)
	}
	fieldType, _ = registry.FieldType("published")
	if fieldType != schema.FieldTypeBoolean {
		t.Fatalf("expected published to be boolean, got %q", fieldType)
	}

	emails := registry.EmailFields()
	if len(emails) != 1 || emails[0] != "authorEmail" {
		t.Fatalf("expected authorEmail as the email field, got %v", emails)
	}

	required := registry.RequiredFields()
	if len(required) != 2 {
		t.Fatalf("expected 2 required fields, got %v", required)
	}
}

func TestRegistryFromOpenAPIFailures(t *testing.T) {
	ctx := context.Background()

	if _, err := schema.RegistryFromOpenAPI(ctx, nil, "PostDraft"); err == nil {
		t.Fatalf("expected empty document to fail")
	}
	if _, err := schema.RegistryFromOpenAPI(ctx, []byte(openapiDoc), ""); err == nil {
		t.Fatalf("expected empty schema name to fail")
	}
	if _, err := schema.RegistryFromOpenAPI(ctx, []byte(openapiDoc), "Missing"); err == nil {
		t.Fatalf("expected missing component to fail")
	}
}
