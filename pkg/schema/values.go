package schema

import "strings"

// Normalize coerces an arbitrary raw value map into a total FormValues.
// Missing keys fall back to their declared defaults and wrong-typed values
// are coerced rather than rejected. Applying Normalize to the map of an
// already normalized object returns the same object.
func Normalize(raw map[string]any) FormValues {
	values := Defaults()
	if len(raw) == 0 {
		return values
	}
	for name, value := range raw {
		values.Set(name, value)
	}
	return values
}

// Defaults returns the canonical zero value for every field: empty strings,
// empty (non-nil) string slices, nil main image, false booleans.
func Defaults() FormValues {
	return FormValues{
		Tags:         []string{},
		Media:        []string{},
		SliderImages: []string{},
	}
}

// coerceString passes trimmed non-empty strings through unchanged and maps
// everything else to the empty string.
func coerceString(value any) string {
	str, ok := value.(string)
	if !ok {
		return ""
	}
	if strings.TrimSpace(str) == "" {
		return ""
	}
	return str
}

// coerceBool accepts the literal true, the case-insensitive strings "true",
// "1", "yes" and "on", and nonzero numbers. Everything else is false.
func coerceBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "1", "yes", "on":
			return true
		}
		return false
	default:
		f, ok := asFloat(typed)
		return ok && f != 0
	}
}

// coerceStringSlice keeps only string items from slice inputs and maps
// non-slices to an empty slice. The result is never nil.
func coerceStringSlice(value any) []string {
	switch typed := value.(type) {
	case []string:
		out := make([]string, 0, len(typed))
		return append(out, typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return []string{}
	}
}

// coerceNullableString accepts a non-empty string or an explicit nil;
// anything else collapses to nil.
func coerceNullableString(value any) *string {
	str, ok := value.(string)
	if !ok {
		return nil
	}
	if strings.TrimSpace(str) == "" {
		return nil
	}
	return &str
}

func asFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	default:
		return 0, false
	}
}
