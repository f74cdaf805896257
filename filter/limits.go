package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Limits caps how much filtering a single request may ask for.
// A value of 0 means no limit for that metric.
type Limits struct {
	MaxClauses    int // Maximum number of clauses after transformation
	MaxListValues int // Maximum number of values in a single in/not_in list
}

// Predefined limits
var (
	// DefaultLimits provides reasonable defaults for public endpoints.
	DefaultLimits = &Limits{
		MaxClauses:    20,
		MaxListValues: 50,
	}

	// RelaxedLimits provides looser limits for trusted/internal use.
	RelaxedLimits = &Limits{
		MaxClauses:    50,
		MaxListValues: 500,
	}
)

// CheckLimits validates that normalized clauses don't exceed the limits.
// If limits is nil, no validation is performed.
func CheckLimits(clauses []Clause, limits *Limits) error {
	if limits == nil {
		return nil
	}
	if limits.MaxClauses > 0 && len(clauses) > limits.MaxClauses {
		return newValidationError("filter clause count %d exceeds limit %d", len(clauses), limits.MaxClauses)
	}
	if limits.MaxListValues > 0 {
		for _, c := range clauses {
			if c.Operator.Arity() != ArityList {
				continue
			}
			if list, ok := c.Value.([]any); ok && len(list) > limits.MaxListValues {
				return newValidationError("filter %s[%s] has %d values, exceeds limit %d", c.Column, c.Operator, len(list), limits.MaxListValues)
			}
		}
	}
	return nil
}

// ValidationError lists every problem found by Validate or CheckLimits.
type ValidationError struct {
	Problems []string
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Problems: []string{fmt.Sprintf(format, args...)}}
}

func (e *ValidationError) Error() string {
	return "invalid filter: " + strings.Join(e.Problems, "; ")
}

// Validate reports the input that Transform would silently skip: undeclared
// params, operators that are unknown or not allowed for a param, ranges
// without exactly two bounds and lists given to single value operators.
// Params listed in ignore (search, pagination, geo params...) are not
// reported.
//
// Transform itself stays permissive; Validate is for callers that opt in to
// strict filtering.
func (s *Spec) Validate(query map[string]any, ignore ...string) error {
	var problems []string

	params := lo.Keys(query)
	sort.Strings(params)
	for _, param := range params {
		if lo.Contains(ignore, param) {
			continue
		}
		i, declared := s.byParam[param]
		if !declared {
			problems = append(problems, fmt.Sprintf("unknown filter %q", param))
			continue
		}
		opValues, ok := query[param].(map[string]any)
		if !ok {
			problems = append(problems, fmt.Sprintf("filter %q must be given as %s[operator]=value", param, param))
			continue
		}
		keys := lo.Keys(opValues)
		sort.Strings(keys)
		for _, key := range keys {
			op, ok := ParseOperator(key)
			if !ok {
				problems = append(problems, fmt.Sprintf("unknown operator %q for filter %q", key, param))
				continue
			}
			if !lo.Contains(s.fields[i].Operators, op) {
				problems = append(problems, fmt.Sprintf("operator %q is not allowed for filter %q", key, param))
				continue
			}
			if _, ok := Normalize(Clause{Operator: op, Value: Coerce(opValues[key])}); !ok {
				if op.Arity() == ArityPair {
					problems = append(problems, fmt.Sprintf("filter %s[%s] needs exactly two values", param, key))
				} else {
					problems = append(problems, fmt.Sprintf("filter %s[%s] takes a single value", param, key))
				}
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
