package filter

import (
	"fmt"

	"github.com/samber/lo"
)

// Field declares one filterable query parameter: which operators it accepts
// and, optionally, the storage column it maps to.
type Field struct {
	Param     string
	Operators []Operator
	// Column defaults to Param when empty.
	Column string
}

// Spec is the per-resource filter declaration. It is built once, never
// mutated afterwards, and can be shared between goroutines.
type Spec struct {
	fields  []Field
	byParam map[string]int
}

// NewSpec builds a Spec from fields in declaration order, which is also the
// order of the produced clauses. It panics on configuration mistakes such as
// duplicated params or operators outside the vocabulary.
func NewSpec(fields ...Field) *Spec {
	s := &Spec{
		fields:  make([]Field, 0, len(fields)),
		byParam: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Param == "" {
			panic("filter: field param must not be empty")
		}
		if _, ok := s.byParam[f.Param]; ok {
			panic(fmt.Sprintf("filter: duplicated field %q", f.Param))
		}
		for _, op := range f.Operators {
			if !op.Valid() {
				panic(fmt.Sprintf("filter: unknown operator %q for field %q", op, f.Param))
			}
		}
		if dups := lo.FindDuplicates(f.Operators); len(dups) > 0 {
			panic(fmt.Sprintf("filter: duplicated operators %v for field %q", dups, f.Param))
		}
		f.Operators = append([]Operator(nil), f.Operators...)
		s.byParam[f.Param] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

// Fields returns a copy of the declared fields.
func (s *Spec) Fields() []Field {
	return lo.Map(s.fields, func(f Field, _ int) Field {
		f.Operators = append([]Operator(nil), f.Operators...)
		return f
	})
}

// Params returns the declared parameter names in order.
func (s *Spec) Params() []string {
	return lo.Map(s.fields, func(f Field, _ int) string { return f.Param })
}

// Column resolves a param to its storage column.
func (s *Spec) Column(param string) (string, bool) {
	i, ok := s.byParam[param]
	if !ok {
		return "", false
	}
	return s.fields[i].column(), true
}

// Allows reports whether op is declared for param.
func (s *Spec) Allows(param string, op Operator) bool {
	i, ok := s.byParam[param]
	if !ok {
		return false
	}
	return lo.Contains(s.fields[i].Operators, op)
}

func (f Field) column() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Param
}
