package filter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected map[string]any
	}{
		{
			name:     "empty",
			query:    "",
			expected: map[string]any{},
		},
		{
			name:     "plain key",
			query:    "search=beach",
			expected: map[string]any{"search": "beach"},
		},
		{
			name:     "repeated plain key",
			query:    "tag=a&tag=b",
			expected: map[string]any{"tag": []any{"a", "b"}},
		},
		{
			name:  "bracketed operators",
			query: "price[gte]=10&price[lte]=20&city[eq]=Lisbon",
			expected: map[string]any{
				"price": map[string]any{"gte": "10", "lte": "20"},
				"city":  map[string]any{"eq": "Lisbon"},
			},
		},
		{
			name:  "append list",
			query: "category[in][]=villa&category[in][]=cabin",
			expected: map[string]any{
				"category": map[string]any{"in": []any{"villa", "cabin"}},
			},
		},
		{
			name:  "indexed list is ordered by index",
			query: "price[btw][1]=200&price[btw][0]=100",
			expected: map[string]any{
				"price": map[string]any{"btw": []any{"100", "200"}},
			},
		},
		{
			name:  "indexed list with gaps keeps order",
			query: "price[btw][10]=200&price[btw][2]=100",
			expected: map[string]any{
				"price": map[string]any{"btw": []any{"100", "200"}},
			},
		},
		{
			name:     "malformed brackets stay verbatim",
			query:    "price[gte=10&[eq]=x&a[b]c=1",
			expected: map[string]any{"price[gte": "10", "[eq]": "x", "a[b]c": "1"},
		},
		{
			name:  "escaped brackets",
			query: "price%5Bgt%5D=50",
			expected: map[string]any{
				"price": map[string]any{"gt": "50"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ParseQuery(values))
		})
	}
}
