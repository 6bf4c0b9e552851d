package catalog

import (
	"github.com/Makepad-fr/artspot/internal/geo"
	"github.com/Makepad-fr/artspot/internal/model"
)

func pos(lat, lng float64) *geo.Coordinate { return &geo.Coordinate{Lat: lat, Lng: lng} }

var builtin = []model.Artwork{
	{
		Title:       "Banksy - London",
		Artist:      "Banksy",
		Description: "Various Banksy pieces around London",
		City:        "London",
		Position:    pos(51.5074, -0.1278),
	},
	{
		Title:       "Northern Quarter - Manchester",
		Artist:      "Various Artists",
		Description: "Vibrant street art scene in Manchester's Northern Quarter",
		City:        "Manchester",
		Position:    pos(53.4808, -2.2426),
	},
	{
		Title:       "Leith Walk - Edinburgh",
		Artist:      "Various Artists",
		Description: "Colorful murals along Leith Walk",
		City:        "Edinburgh",
		Position:    pos(55.9533, -3.1883),
	},
	{
		Title:       "Digbeth - Birmingham",
		Artist:      "Various Artists",
		Description: "Street art hub in Birmingham's creative quarter",
		City:        "Birmingham",
		Position:    pos(52.4862, -1.8904),
	},
	{
		Title:       "Chapel Allerton - Leeds",
		Artist:      "Various Artists",
		Description: "Local street art and murals",
		City:        "Leeds",
		Position:    pos(53.8008, -1.5491),
	},
	{
		Title:       "Cardiff Bay - Cardiff",
		Artist:      "Various Artists",
		Description: "Welsh street art and murals",
		City:        "Cardiff",
		Position:    pos(51.4816, -3.1791),
	},
}
