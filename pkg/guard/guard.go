// Package guard provides runtime predicates over untyped values. Every
// predicate accepts any input, never panics, and answers false for anything
// that does not match; absence of a match is not an error condition.
package guard

import (
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"
)

// IsString reports whether value is a string.
func IsString(value any) bool {
	_, ok := value.(string)
	return ok
}

// IsNonEmptyString reports whether value is a string that is non-empty after
// trimming whitespace.
func IsNonEmptyString(value any) bool {
	str, ok := value.(string)
	return ok && strings.TrimSpace(str) != ""
}

// IsNumber reports whether value is a numeric type. NaN is rejected.
func IsNumber(value any) bool {
	f, ok := asFloat(value)
	return ok && !math.IsNaN(f)
}

// IsBool reports whether value is a bool.
func IsBool(value any) bool {
	_, ok := value.(bool)
	return ok
}

// IsObject reports whether value is a non-nil string-keyed map.
func IsObject(value any) bool {
	m, ok := value.(map[string]any)
	return ok && m != nil
}

// IsArray reports whether value is a non-nil slice of any element type.
func IsArray(value any) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Slice && !rv.IsNil()
}

// IsValidDate reports whether value is a non-zero time.Time.
func IsValidDate(value any) bool {
	t, ok := value.(time.Time)
	return ok && !t.IsZero()
}

// IsFunc reports whether value is a callable function.
func IsFunc(value any) bool {
	if value == nil {
		return false
	}
	return reflect.ValueOf(value).Kind() == reflect.Func
}

// IsStringSlice reports whether value is a []string or a []any whose items are
// all strings.
func IsStringSlice(value any) bool {
	switch typed := value.(type) {
	case []string:
		return typed != nil
	case []any:
		if typed == nil {
			return false
		}
		for _, item := range typed {
			if !IsString(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsNumberSlice reports whether value is a homogeneous numeric slice.
func IsNumberSlice(value any) bool {
	switch typed := value.(type) {
	case []float64:
		return typed != nil
	case []int:
		return typed != nil
	case []any:
		if typed == nil {
			return false
		}
		for _, item := range typed {
			if !IsNumber(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsBoolSlice reports whether value is a homogeneous boolean slice.
func IsBoolSlice(value any) bool {
	switch typed := value.(type) {
	case []bool:
		return typed != nil
	case []any:
		if typed == nil {
			return false
		}
		for _, item := range typed {
			if !IsBool(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsPositive reports whether value is a number greater than zero.
func IsPositive(value any) bool {
	f, ok := asFloat(value)
	return ok && !math.IsNaN(f) && f > 0
}

// IsNonNegative reports whether value is a number greater than or equal to
// zero.
func IsNonNegative(value any) bool {
	f, ok := asFloat(value)
	return ok && !math.IsNaN(f) && f >= 0
}

// IsInteger reports whether value is a whole number.
func IsInteger(value any) bool {
	f, ok := asFloat(value)
	return ok && !math.IsNaN(f) && f == math.Trunc(f)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether value is a string shaped like local@domain.
func IsValidEmail(value any) bool {
	str, ok := value.(string)
	if !ok {
		return false
	}
	return emailPattern.MatchString(strings.TrimSpace(str))
}

// IsValidURL reports whether value is a parseable http or https URL.
func IsValidURL(value any) bool {
	str, ok := value.(string)
	if !ok {
		return false
	}
	parsed, err := url.Parse(strings.TrimSpace(str))
	if err != nil {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	switch parsed.Scheme {
	case "http", "https":
		return true
	default:
		return false
	}
}

// Nullable wraps a predicate so that nil is also accepted.
func Nullable(predicate func(any) bool) func(any) bool {
	return func(value any) bool {
		if value == nil {
			return true
		}
		return predicate(value)
	}
}

func asFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int8:
		return float64(typed), true
	case int16:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint8:
		return float64(typed), true
	case uint16:
		return float64(typed), true
	case uint32:
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
