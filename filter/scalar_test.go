package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{name: "true", input: "true", expected: true},
		{name: "TRUE", input: "TRUE", expected: true},
		{name: "1", input: "1", expected: true},
		{name: "false", input: "false", expected: false},
		{name: "False", input: "False", expected: false},
		{name: "0", input: "0", expected: false},
		{name: "null", input: "null", expected: nil},
		{name: "NULL", input: "NULL", expected: nil},
		{name: "number stays string", input: "42", expected: "42"},
		{name: "empty string", input: "", expected: ""},
		{name: "padded keyword is not coerced", input: " true", expected: " true"},
		{name: "non string", input: 3.5, expected: 3.5},
		{
			name:     "list element-wise",
			input:    []any{"1", "villa", "null", "0"},
			expected: []any{true, "villa", nil, false},
		},
		{
			name:     "string list",
			input:    []string{"false", "x"},
			expected: []any{false, "x"},
		},
		{
			name:     "nested",
			input:    map[string]any{"a": []any{"true", []any{"NULL"}}},
			expected: map[string]any{"a": []any{true, []any{nil}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Coerce(tt.input))
		})
	}
}

func TestCoerceIsStable(t *testing.T) {
	for _, in := range []any{"true", "0", "null", "villa", []any{"1", "x"}} {
		once := Coerce(in)
		assert.Equal(t, once, Coerce(in))
		assert.Equal(t, once, Coerce(once))
	}
}
