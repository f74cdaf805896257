package filter

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Wildcard is the LIKE wildcard added around bare like values.
const Wildcard = "%"

// Normalize shapes a clause value the way query executors expect it. The
// second return value is false when the clause must be dropped.
//
//   - in, not_in: a string is split on commas, without coercing the parts;
//     the result is always a list.
//   - btw, not_btw: same splitting; anything but exactly two values drops the clause.
//   - scalar operators: a list or map value drops the clause.
//   - like: a string without a wildcard is wrapped as %value%.
//
// Raw, when set, is shaped the same way.
func Normalize(c Clause) (Clause, bool) {
	switch c.Operator.Arity() {
	case ArityList:
		c.Value = toList(c.Value)
		if c.Raw != nil {
			c.Raw = toList(c.Raw)
		}
	case ArityPair:
		list := toList(c.Value)
		if len(list) != 2 {
			return c, false
		}
		c.Value = list
		if c.Raw != nil {
			c.Raw = toList(c.Raw)
		}
	default:
		if !isScalar(c.Value) {
			return c, false
		}
		if c.Operator == Like {
			c.Value = wrapLike(c.Value)
			c.Raw = wrapLike(c.Raw)
		}
	}
	return c, true
}

func isScalar(v any) bool {
	switch v.(type) {
	case []any, []string, map[string]any:
		return false
	}
	return true
}

func wrapLike(v any) any {
	if s, ok := v.(string); ok && !strings.Contains(s, Wildcard) {
		return Wildcard + s + Wildcard
	}
	return v
}

// NormalizeAll normalizes clauses in order, dropping the ones Normalize rejects.
func NormalizeAll(clauses []Clause) []Clause {
	result := make([]Clause, 0, len(clauses))
	for _, c := range clauses {
		if nc, ok := Normalize(c); ok {
			result = append(result, nc)
		}
	}
	return result
}

func toList(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case []string:
		return lo.ToAnySlice(val)
	case string:
		return splitList(val)
	case map[string]any:
		// non-index keys, e.g. btw[low]=1&btw[high]=2; order is not meaningful
		return nil
	default:
		return []any{val}
	}
}

func splitList(s string) []any {
	parts := strings.Split(s, ",")
	result := make([]any, len(parts))
	for i, p := range parts {
		result[i] = strings.TrimSpace(p)
	}
	return result
}

func (c Clause) String() string {
	return fmt.Sprintf("%s %s %v", c.Column, c.Symbol(), c.Value)
}
