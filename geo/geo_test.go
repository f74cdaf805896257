package geo

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected float64
		delta    float64
	}{
		{name: "same point", a: Point{0, 0}, b: Point{0, 0}, expected: 0, delta: 1e-9},
		{name: "half degree north", a: Point{0, 0}, b: Point{0.5, 0}, expected: 55.597, delta: 0.01},
		{name: "five degrees north", a: Point{0, 0}, b: Point{5, 0}, expected: 555.97, delta: 0.1},
		{name: "one degree east on equator", a: Point{0, 0}, b: Point{0, 1}, expected: 111.195, delta: 0.01},
		{name: "antipodes", a: Point{0, 0}, b: Point{0, 180}, expected: 20015.09, delta: 0.1},
		{name: "lisbon to porto", a: Point{38.7223, -9.1393}, b: Point{41.1579, -8.6291}, expected: 274.0, delta: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Distance(tt.a, tt.b)
			assert.InDelta(t, tt.expected, d, tt.delta)
			assert.InDelta(t, d, Distance(tt.b, tt.a), 1e-9)
		})
	}
}

func TestRadiusContains(t *testing.T) {
	r := Radius{Origin: Point{0, 0}, Km: 100}
	assert.True(t, r.Contains(Point{0.5, 0}))
	assert.False(t, r.Contains(Point{5, 0}))
	assert.True(t, r.Contains(Point{0, 0}))
	assert.False(t, Radius{Origin: Point{0, 0}, Km: 0}.Contains(Point{0, 0}))
}

func TestPointValidate(t *testing.T) {
	require.NoError(t, Point{Lat: 90, Lng: -180}.Validate())
	require.ErrorContains(t, Point{Lat: 91}.Validate(), "latitude 91 out of range")
	require.ErrorContains(t, Point{Lng: 180.5}.Validate(), "longitude 180.5 out of range")
}

func TestParseRadius(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Radius
		ok       bool
	}{
		{
			name:     "all params",
			query:    "latitude=38.72&longitude=-9.14&radius=25",
			expected: Radius{Origin: Point{Lat: 38.72, Lng: -9.14}, Km: 25},
			ok:       true,
		},
		{
			name:     "short aliases",
			query:    "lat=0&lng=0&radius=100",
			expected: Radius{Origin: Point{}, Km: 100},
			ok:       true,
		},
		{name: "missing radius", query: "latitude=1&longitude=2"},
		{name: "missing longitude", query: "latitude=1&radius=2"},
		{name: "empty latitude", query: "latitude=&longitude=2&radius=3"},
		{name: "not a number", query: "latitude=north&longitude=2&radius=3"},
		{name: "zero radius", query: "latitude=1&longitude=2&radius=0"},
		{name: "latitude out of range", query: "latitude=100&longitude=2&radius=3"},
		{name: "infinite radius", query: "latitude=1&longitude=2&radius=Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			r, ok := ParseRadius(values)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, r)
		})
	}
}

func TestParams(t *testing.T) {
	assert.Equal(t, []string{"latitude", "lat", "longitude", "lng", "radius"}, Params())
}
