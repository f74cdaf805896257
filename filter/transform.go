package filter

import (
	"net/url"
	"reflect"
)

// Transform turns a parsed query into clauses.
//
// Only declared (param, operator) pairs that are present in the query produce
// a clause. Fields come out in declaration order and, within a field, in the
// order its operators were declared. Unknown params, unknown operators and
// params given without an operator map are skipped; Transform never fails,
// since filtering is best effort. Use Validate when a caller needs to reject
// such input instead.
func (s *Spec) Transform(query map[string]any) []Clause {
	clauses := make([]Clause, 0)
	if len(query) == 0 {
		return clauses
	}
	for _, f := range s.fields {
		raw, ok := query[f.Param]
		if !ok || raw == nil {
			continue
		}
		opValues, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		column := f.column()
		for _, op := range f.Operators {
			v, ok := lookupOperator(opValues, op)
			if !ok {
				continue
			}
			c := Clause{Column: column, Operator: op, Value: Coerce(v)}
			if !reflect.DeepEqual(c.Value, v) {
				c.Raw = v
			}
			clauses = append(clauses, c)
		}
	}
	return clauses
}

// Clauses transforms the query and normalizes the result, dropping clauses
// that cannot be applied such as ranges without exactly two bounds.
func (s *Spec) Clauses(query map[string]any) []Clause {
	return NormalizeAll(s.Transform(query))
}

// TransformValues parses bracketed query values and transforms them.
func (s *Spec) TransformValues(values url.Values) []Clause {
	return s.Transform(ParseQuery(values))
}

func lookupOperator(opValues map[string]any, op Operator) (any, bool) {
	v, ok := opValues[string(op)]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
