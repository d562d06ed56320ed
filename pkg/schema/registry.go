package schema

import (
	"fmt"
	"strings"
)

// Registry is the declarative field table the wizard is built around. It is
// read-only after construction; the lookup index is built once and owned by
// the registry instance, so callers that need isolation simply construct
// their own.
type Registry struct {
	specs  []FieldSpec
	byName map[string]FieldSpec
	lookup map[string]string
}

// NewRegistry returns the default blog wizard registry.
func NewRegistry() *Registry {
	registry, err := NewRegistryFromSpecs(defaultSpecs())
	if err != nil {
		// The default table is static; a failure here is a programming error.
		panic(fmt.Sprintf("schema: default registry invalid: %v", err))
	}
	return registry
}

// NewRegistryFromSpecs builds a registry from explicit field specs. Duplicate
// field names and alias collisions are configuration errors caught here, at
// startup, rather than resolved fuzzily at lookup time.
func NewRegistryFromSpecs(specs []FieldSpec) (*Registry, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("schema: registry requires at least one field spec")
	}

	registry := &Registry{
		specs:  append([]FieldSpec(nil), specs...),
		byName: make(map[string]FieldSpec, len(specs)),
		lookup: make(map[string]string, len(specs)*2),
	}

	for _, spec := range registry.specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return nil, fmt.Errorf("schema: field spec with empty name")
		}
		if _, exists := registry.byName[name]; exists {
			return nil, fmt.Errorf("schema: duplicate field %q", name)
		}
		registry.byName[name] = spec

		key := normalizeFieldName(name)
		if owner, exists := registry.lookup[key]; exists && owner != name {
			return nil, fmt.Errorf("schema: field %q collides with %q", name, owner)
		}
		registry.lookup[key] = name
	}

	for _, spec := range registry.specs {
		for _, alias := range spec.Aliases {
			key := normalizeFieldName(alias)
			if key == "" {
				return nil, fmt.Errorf("schema: field %q has empty alias", spec.Name)
			}
			if owner, exists := registry.lookup[key]; exists && owner != spec.Name {
				return nil, fmt.Errorf("schema: alias %q of field %q already resolves to %q", alias, spec.Name, owner)
			}
			registry.lookup[key] = spec.Name
		}
	}

	return registry, nil
}

// FieldNames returns every canonical field name in declaration order.
func (r *Registry) FieldNames() []string {
	out := make([]string, 0, len(r.specs))
	for _, spec := range r.specs {
		out = append(out, spec.Name)
	}
	return out
}

// StringFields returns the names of plain string fields.
func (r *Registry) StringFields() []string {
	return r.fieldsOfType(FieldTypeString)
}

// ArrayFields returns the names of string-array fields.
func (r *Registry) ArrayFields() []string {
	return r.fieldsOfType(FieldTypeArray)
}

// BooleanFields returns the names of boolean fields.
func (r *Registry) BooleanFields() []string {
	return r.fieldsOfType(FieldTypeBoolean)
}

// EmailFields returns the names of fields carrying email addresses.
func (r *Registry) EmailFields() []string {
	out := make([]string, 0, 1)
	for _, spec := range r.specs {
		if spec.Email {
			out = append(out, spec.Name)
		}
	}
	return out
}

// FieldType reports the declared type of a canonical field name.
func (r *Registry) FieldType(name string) (FieldType, bool) {
	spec, ok := r.byName[name]
	if !ok {
		return "", false
	}
	return spec.Type, true
}

// Spec returns the full field spec for a canonical name.
func (r *Registry) Spec(name string) (FieldSpec, bool) {
	spec, ok := r.byName[name]
	return spec, ok
}

// Specs returns a copy of every registered field spec in declaration order.
func (r *Registry) Specs() []FieldSpec {
	return append([]FieldSpec(nil), r.specs...)
}

// RequiredFields returns the names of required fields.
func (r *Registry) RequiredFields() []string {
	out := make([]string, 0, len(r.specs))
	for _, spec := range r.specs {
		if spec.Required {
			out = append(out, spec.Name)
		}
	}
	return out
}

// Defaults returns a fresh total FormValues seeded with every declared
// default.
func (r *Registry) Defaults() FormValues {
	return Defaults()
}

// Resolve maps a field name, canonical or legacy, to its canonical key.
// Resolution is exact-match first, then a normalized (lowercased, separator
// stripped) alias-table hit. Unknown names do not resolve; there is no fuzzy
// fallback.
func (r *Registry) Resolve(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", false
	}
	if _, ok := r.byName[trimmed]; ok {
		return trimmed, true
	}
	canonical, ok := r.lookup[normalizeFieldName(trimmed)]
	return canonical, ok
}

func (r *Registry) fieldsOfType(fieldType FieldType) []string {
	out := make([]string, 0, len(r.specs))
	for _, spec := range r.specs {
		if spec.Type == fieldType {
			out = append(out, spec.Name)
		}
	}
	return out
}

// normalizeFieldName lowercases and strips underscores and hyphens so alias
// entries match regardless of separator convention.
func normalizeFieldName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	lowered = strings.ReplaceAll(lowered, "_", "")
	lowered = strings.ReplaceAll(lowered, "-", "")
	return lowered
}

const (
	requiredFieldWeight = 12.0
	optionalFieldWeight = 3.5
)

func defaultSpecs() []FieldSpec {
	return []FieldSpec{
		{Name: FieldNickname, Type: FieldTypeString, Required: true, Weight: requiredFieldWeight,
			Aliases: []string{"userNickname", "nick"}, Process: func(v any) any { return coerceString(v) }},
		{Name: FieldEmail, Type: FieldTypeString, Required: true, Email: true, Weight: requiredFieldWeight,
			Aliases: []string{"userEmail", "emailAddress"}, Process: func(v any) any { return coerceString(v) }},
		{Name: FieldBio, Type: FieldTypeString, Weight: optionalFieldWeight,
			Aliases: []string{"userBio", "profile"}, Process: func(v any) any { return coerceString(v) }},
		{Name: FieldTitle, Type: FieldTypeString, Required: true, Weight: requiredFieldWeight,
			Aliases: []string{"postTitle", "blogTitle"}, Process: func(v any) any { return coerceString(v) }},
		{Name: FieldDescription, Type: FieldTypeString, Required: true, Weight: requiredFieldWeight,
			Aliases: []string{"postDescription", "summary"}, Process: func(v any) any { return coerceString(v) }},
		{Name: FieldCategory, Type: FieldTypeString, Required: true, Weight: requiredFieldWeight,
			Aliases: []string{"postCategory"}, Process: func(v any) any { return coerceString(v) }},
		{Name: FieldContent, Type: FieldTypeString, Required: true, Weight: requiredFieldWeight,
			Aliases: []string{"editorContent", "postContent", "body"}, Process: func(v any) any { return coerceString(v) }},
		{Name: FieldTags, Type: FieldTypeArray, Weight: optionalFieldWeight,
			Aliases: []string{"postTags"}, Process: func(v any) any { return coerceStringSlice(v) }},
		{Name: FieldMedia, Type: FieldTypeArray, Weight: optionalFieldWeight,
			Aliases: []string{"mediaFiles", "gallery"}, Process: func(v any) any { return coerceStringSlice(v) }},
		{Name: FieldSliderImages, Type: FieldTypeArray, Weight: optionalFieldWeight,
			Aliases: []string{"slider"}, Process: func(v any) any { return coerceStringSlice(v) }},
		{Name: FieldMainImage, Type: FieldTypeNullableString, Weight: optionalFieldWeight,
			Aliases: []string{"coverImage", "heroImage"}, Process: func(v any) any { return coerceNullableString(v) }},
		{Name: FieldAllowComments, Type: FieldTypeBoolean, Weight: optionalFieldWeight,
			Aliases: []string{"comments"}, Process: func(v any) any { return coerceBool(v) }},
		{Name: FieldIsEditorCompleted, Type: FieldTypeBoolean, Weight: optionalFieldWeight,
			Aliases: []string{"editor", "editorCompleted", "editorDone"}, Process: func(v any) any { return coerceBool(v) }},
		{Name: FieldAgreeToTerms, Type: FieldTypeBoolean, Weight: optionalFieldWeight,
			Aliases: []string{"terms", "agreeTerms"}, Process: func(v any) any { return coerceBool(v) }},
	}
}
