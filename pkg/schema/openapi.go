package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// RegistryFromOpenAPI derives a field registry from a named component schema
// inside an OpenAPI document. String, array and boolean properties map onto
// the wizard field types; nullable strings become nullable_string. Properties
// of any other shape are rejected so a drifting contract fails loudly at
// startup instead of producing half-coerced values later.
func RegistryFromOpenAPI(ctx context.Context, raw []byte, schemaName string) (*Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("schema: openapi document is empty")
	}
	name := strings.TrimSpace(schemaName)
	if name == "" {
		return nil, errors.New("schema: component schema name is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, errors.New("schema: openapi document has no component schemas")
	}

	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("schema: component schema %q not found", name)
	}

	target := ref.Value
	if len(target.Properties) == 0 {
		return nil, fmt.Errorf("schema: component schema %q has no properties", name)
	}

	requiredSet := make(map[string]struct{}, len(target.Required))
	for _, item := range target.Required {
		requiredSet[item] = struct{}{}
	}

	propNames := make([]string, 0, len(target.Properties))
	for propName := range target.Properties {
		propNames = append(propNames, propName)
	}
	sort.Strings(propNames)

	specs := make([]FieldSpec, 0, len(propNames))
	for _, propName := range propNames {
		propRef := target.Properties[propName]
		if propRef == nil || propRef.Value == nil {
			return nil, fmt.Errorf("schema: property %q is unresolved", propName)
		}
		spec, err := specFromProperty(propName, propRef.Value)
		if err != nil {
			return nil, err
		}
		if _, isRequired := requiredSet[propName]; isRequired {
			spec.Required = true
			spec.Weight = requiredFieldWeight
		}
		specs = append(specs, spec)
	}

	return NewRegistryFromSpecs(specs)
}

func specFromProperty(name string, prop *openapi3.Schema) (FieldSpec, error) {
	spec := FieldSpec{Name: name, Weight: optionalFieldWeight}

	switch {
	case prop.Type.Is(openapi3.TypeString):
		if prop.Nullable {
			spec.Type = FieldTypeNullableString
			spec.Process = func(v any) any { return coerceNullableString(v) }
		} else {
			spec.Type = FieldTypeString
			spec.Process = func(v any) any { return coerceString(v) }
		}
		if strings.EqualFold(prop.Format, "email") {
			spec.Email = true
		}
	case prop.Type.Is(openapi3.TypeBoolean):
		spec.Type = FieldTypeBoolean
		spec.Process = func(v any) any { return coerceBool(v) }
	case prop.Type.Is(openapi3.TypeArray):
		if prop.Items == nil || prop.Items.Value == nil || !prop.Items.Value.Type.Is(openapi3.TypeString) {
			return FieldSpec{}, fmt.Errorf("schema: array property %q must have string items", name)
		}
		spec.Type = FieldTypeArray
		spec.Process = func(v any) any { return coerceStringSlice(v) }
	default:
		return FieldSpec{}, fmt.Errorf("schema: property %q has unsupported type", name)
	}

	return spec, nil
}
