// Package geo holds the coordinate type, great-circle distance and the
// "<lat>,<lng>" parser used by the search box.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusMiles is the sphere radius used for every distance in artspot.
const EarthRadiusMiles = 3959

// Coordinate is a WGS84 point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Valid reports whether both parts are finite and inside the degree ranges.
func (c Coordinate) Valid() bool {
	if !finite(c.Lat) || !finite(c.Lng) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}

// Distance returns the haversine distance between a and b in miles.
func Distance(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push h a hair outside [0,1] for antipodal points
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMiles * c
}

// ParseCoordinate reads "<lat>,<lng>" with optional whitespace around each
// part. It returns false for anything else so callers can fall back to
// geocoding the text as an address.
func ParseCoordinate(s string) (Coordinate, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, false
	}
	lat, ok := parseDecimal(parts[0])
	if !ok {
		return Coordinate{}, false
	}
	lng, ok := parseDecimal(parts[1])
	if !ok {
		return Coordinate{}, false
	}
	return Coordinate{Lat: lat, Lng: lng}, true
}

func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// strconv also accepts hex floats, "Inf" and "NaN"; the search box does not.
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		default:
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
