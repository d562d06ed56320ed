package guard

import "strings"

// Predicate is the reusable validator shape returned by the factories below.
type Predicate func(any) bool

// MinLength returns a predicate that accepts strings whose trimmed length is
// at least min.
func MinLength(min int) Predicate {
	return func(value any) bool {
		str, ok := value.(string)
		if !ok {
			return false
		}
		return len(strings.TrimSpace(str)) >= min
	}
}

// InRange returns a predicate that accepts numbers within [min, max].
func InRange(min, max float64) Predicate {
	return func(value any) bool {
		f, ok := asFloat(value)
		if !ok {
			return false
		}
		return f >= min && f <= max
	}
}

// Each returns a predicate that accepts slices whose every item satisfies the
// supplied item predicate. Non-slices and nil item predicates are rejected.
func Each(item Predicate) Predicate {
	return func(value any) bool {
		if item == nil {
			return false
		}
		switch typed := value.(type) {
		case []any:
			if typed == nil {
				return false
			}
			for _, entry := range typed {
				if !item(entry) {
					return false
				}
			}
			return true
		case []string:
			if typed == nil {
				return false
			}
			for _, entry := range typed {
				if !item(entry) {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
}
