package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	london     = Coordinate{Lat: 51.5074, Lng: -0.1278}
	manchester = Coordinate{Lat: 53.4808, Lng: -2.2426}
	edinburgh  = Coordinate{Lat: 55.9533, Lng: -3.1883}
)

func TestDistance_LondonToManchester(t *testing.T) {
	d := Distance(london, manchester)
	assert.InDelta(t, 163, d, 1.0)
}

func TestDistance_ZeroForSamePoint(t *testing.T) {
	for _, c := range []Coordinate{london, manchester, {0, 0}, {-33.86, 151.2}, {90, 180}} {
		assert.Equal(t, 0.0, Distance(c, c), "point %s", c)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]Coordinate{
		{london, manchester},
		{manchester, edinburgh},
		{{-37.8427, 144.9654}, {51.4106, -0.3421}},
		{{0, 0}, {0, 180}},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1])
		ba := Distance(p[1], p[0])
		assert.InDelta(t, ab, ba, 1e-9)
		assert.GreaterOrEqual(t, ab, 0.0)
	}
}

func TestDistance_Antipodal(t *testing.T) {
	d := Distance(Coordinate{0, 0}, Coordinate{0, 180})
	assert.InDelta(t, math.Pi*EarthRadiusMiles, d, 1e-6)
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in   string
		want Coordinate
		ok   bool
	}{
		{" 51.5, -0.1 ", Coordinate{51.5, -0.1}, true},
		{"51.5074,-0.1278", Coordinate{51.5074, -0.1278}, true},
		{"53.4808 ,\t-2.2426", Coordinate{53.4808, -2.2426}, true},
		{"1e1,2", Coordinate{10, 2}, true},
		{"SW1A 1AA", Coordinate{}, false},
		{"51.5", Coordinate{}, false},
		{"51.5,-0.1,3", Coordinate{}, false},
		{"51.5,", Coordinate{}, false},
		{"abc,def", Coordinate{}, false},
		{"51.5abc,-0.1", Coordinate{}, false},
		{"NaN,0", Coordinate{}, false},
		{"Inf,0", Coordinate{}, false},
		{"0x1p-2,0", Coordinate{}, false},
		{"1e400,0", Coordinate{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCoordinate(tt.in)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoordinateValid(t *testing.T) {
	assert.True(t, london.Valid())
	assert.True(t, Coordinate{90, -180}.Valid())
	assert.False(t, Coordinate{91, 0}.Valid())
	assert.False(t, Coordinate{0, 180.5}.Valid())
	assert.False(t, Coordinate{math.NaN(), 0}.Valid())
	assert.False(t, Coordinate{0, math.Inf(1)}.Valid())
}
