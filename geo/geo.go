// Package geo implements haversine radius search: a pure Go distance
// function and the matching GORM scope that adds a derived distance column.
package geo

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// EarthRadiusKm is the mean Earth radius used by every distance computation.
const EarthRadiusKm = 6371.0

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return errors.Errorf("latitude %v out of range [-90, 90]", p.Lat)
	}
	if math.IsNaN(p.Lng) || p.Lng < -180 || p.Lng > 180 {
		return errors.Errorf("longitude %v out of range [-180, 180]", p.Lng)
	}
	return nil
}

// Distance returns the great-circle distance between a and b in kilometers.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Radius selects everything strictly closer than Km to Origin.
type Radius struct {
	Origin Point
	Km     float64
}

// Contains reports whether p lies inside the radius.
func (r Radius) Contains(p Point) bool {
	return Distance(r.Origin, p) < r.Km
}

// Query parameter names read by ParseRadius. The short forms are aliases.
var (
	LatitudeParams  = []string{"latitude", "lat"}
	LongitudeParams = []string{"longitude", "lng"}
	RadiusParams    = []string{"radius"}
)

// ParseRadius reads latitude, longitude and radius (km) from query values.
// It reports false unless all three are present, numeric and in range, in
// which case the radius filter does not apply.
func ParseRadius(values url.Values) (Radius, bool) {
	lat, ok := firstFloat(values, LatitudeParams)
	if !ok {
		return Radius{}, false
	}
	lng, ok := firstFloat(values, LongitudeParams)
	if !ok {
		return Radius{}, false
	}
	km, ok := firstFloat(values, RadiusParams)
	if !ok || km <= 0 {
		return Radius{}, false
	}
	r := Radius{Origin: Point{Lat: lat, Lng: lng}, Km: km}
	if r.Origin.Validate() != nil {
		return Radius{}, false
	}
	return r, true
}

// Params returns every query parameter name ParseRadius reads.
func Params() []string {
	params := make([]string, 0, len(LatitudeParams)+len(LongitudeParams)+len(RadiusParams))
	params = append(params, LatitudeParams...)
	params = append(params, LongitudeParams...)
	return append(params, RadiusParams...)
}

func firstFloat(values url.Values, names []string) (float64, bool) {
	for _, name := range names {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
