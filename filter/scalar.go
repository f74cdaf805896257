package filter

import "strings"

// Coerce converts raw query values into their typed form.
//
// "true"/"1" become true, "false"/"0" become false and "null" becomes nil,
// all case-insensitively. Any other string is returned untouched; numeric
// conversion is left to the database. Lists and maps are coerced element by
// element.
func Coerce(v any) any {
	switch val := v.(type) {
	case string:
		return coerceString(val)
	case []string:
		result := make([]any, len(val))
		for i, s := range val {
			result[i] = coerceString(s)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = Coerce(item)
		}
		return result
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, item := range val {
			result[k] = Coerce(item)
		}
		return result
	default:
		return v
	}
}

func coerceString(s string) any {
	switch strings.ToLower(s) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	case "null":
		return nil
	}
	return s
}
