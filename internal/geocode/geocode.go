// Package geocode turns free-text addresses and postcodes into coordinates.
package geocode

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"github.com/Makepad-fr/artspot/internal/geo"
)

const (
	StatusZeroResults = "ZERO_RESULTS"
	StatusNoAPIKey    = "NO_API_KEY"
)

// Geocoder resolves an address to a single coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (geo.Coordinate, error)
}

// Error carries the raw status reported by the geocoding service.
type Error struct {
	Status string
	Query  string
}

func (e *Error) Error() string { return "Geocoding failed: " + e.Status }

// Google geocodes through the Google Maps Geocoding API.
type Google struct {
	client *maps.Client
	region string
	logger *zap.Logger
}

// NewGoogle builds a geocoder for apiKey. Extra client options (base URL,
// HTTP client) are passed straight to the maps client.
func NewGoogle(apiKey, region string, logger *zap.Logger, opts ...maps.ClientOption) (*Google, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	return &Google{client: c, region: region, logger: logger}, nil
}

func (g *Google) Geocode(ctx context.Context, query string) (geo.Coordinate, error) {
	res, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: query,
		Region:  g.region,
	})
	if err != nil {
		g.logger.Debug("geocode failed", zap.String("query", query), zap.Error(err))
		return geo.Coordinate{}, &Error{Status: statusOf(err), Query: query}
	}
	if len(res) == 0 {
		return geo.Coordinate{}, &Error{Status: StatusZeroResults, Query: query}
	}
	loc := res[0].Geometry.Location
	g.logger.Debug("geocoded", zap.String("query", query), zap.Float64("lat", loc.Lat), zap.Float64("lng", loc.Lng))
	return geo.Coordinate{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// statusOf pulls the API status out of "maps: STATUS - message" errors.
func statusOf(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "maps: "); ok {
		status, _, _ := strings.Cut(rest, " - ")
		if status = strings.TrimSpace(status); status != "" {
			return status
		}
	}
	return msg
}

// Unavailable is used when no API key is configured.
type Unavailable struct{}

func (Unavailable) Geocode(_ context.Context, query string) (geo.Coordinate, error) {
	return geo.Coordinate{}, &Error{Status: StatusNoAPIKey, Query: query}
}
