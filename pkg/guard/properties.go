package guard

// HasProperty reports whether the map owns the given key.
func HasProperty(value any, key string) bool {
	m, ok := value.(map[string]any)
	if !ok || m == nil {
		return false
	}
	_, present := m[key]
	return present
}

// HasValidStringProperty reports whether the map owns key and the value is a
// non-empty string after trimming.
func HasValidStringProperty(value any, key string) bool {
	m, ok := value.(map[string]any)
	if !ok || m == nil {
		return false
	}
	entry, present := m[key]
	return present && IsNonEmptyString(entry)
}

// HasValidNumberProperty reports whether the map owns key and the value is a
// non-NaN number.
func HasValidNumberProperty(value any, key string) bool {
	m, ok := value.(map[string]any)
	if !ok || m == nil {
		return false
	}
	entry, present := m[key]
	return present && IsNumber(entry)
}

// HasValidArrayProperty reports whether the map owns key and the value is a
// slice.
func HasValidArrayProperty(value any, key string) bool {
	m, ok := value.(map[string]any)
	if !ok || m == nil {
		return false
	}
	entry, present := m[key]
	return present && IsArray(entry)
}

// HasValidFuncProperty reports whether the map owns key and the value is
// callable.
func HasValidFuncProperty(value any, key string) bool {
	m, ok := value.(map[string]any)
	if !ok || m == nil {
		return false
	}
	entry, present := m[key]
	return present && IsFunc(entry)
}
