package schema

import "strings"

// FieldComplete reports whether the named field counts as filled in: booleans
// must be true, arrays non-empty, strings (nullable included) non-blank
// after trimming. Unknown names are never complete.
func (r *Registry) FieldComplete(name string, values FormValues) bool {
	spec, ok := r.byName[name]
	if !ok {
		return false
	}
	value, ok := values.Get(name)
	if !ok {
		return false
	}

	switch spec.Type {
	case FieldTypeBoolean:
		flag, isBool := value.(bool)
		return isBool && flag
	case FieldTypeArray:
		items, isSlice := value.([]string)
		return isSlice && len(items) > 0
	default:
		str, isString := value.(string)
		return isString && strings.TrimSpace(str) != ""
	}
}

// CompletionPercent scores the values against the registry weights and
// returns a percentage in [0, 100]. Required fields dominate the score;
// optional, boolean and array fields each contribute their small fixed
// share.
func (r *Registry) CompletionPercent(values FormValues) float64 {
	total := 0.0
	completed := 0.0

	for _, spec := range r.specs {
		total += spec.Weight
		if r.FieldComplete(spec.Name, values) {
			completed += spec.Weight
		}
	}

	if total == 0 {
		return 0
	}
	return 100 * completed / total
}

// FormComplete reports whether every required field is filled in.
func (r *Registry) FormComplete(values FormValues) bool {
	for _, spec := range r.specs {
		if spec.Required && !r.FieldComplete(spec.Name, values) {
			return false
		}
	}
	return true
}
