// Package app wires the catalog, the found tracker and the geocoder into the
// flows the CLI, TUI and HTTP API share.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Makepad-fr/artspot/internal/catalog"
	"github.com/Makepad-fr/artspot/internal/found"
	"github.com/Makepad-fr/artspot/internal/geo"
	"github.com/Makepad-fr/artspot/internal/geocode"
	"github.com/Makepad-fr/artspot/internal/model"
	"github.com/Makepad-fr/artspot/internal/nearby"
)

var (
	ErrEmptyQuery     = errors.New("please enter a postcode or coordinates")
	ErrUnknownArtwork = errors.New("unknown artwork")
	ErrNotFoundYet    = errors.New("you haven't found this artwork yet: find it on the map and mark it as found first")
)

// Result is one search: the resolved origin and the artworks ranked from it.
type Result struct {
	Query    string                `json:"query"`
	Origin   geo.Coordinate        `json:"origin"`
	Artworks []model.RankedArtwork `json:"artworks"`
}

// Session is the application state for one user. It is not safe for
// concurrent use; the HTTP API builds one per request.
type Session struct {
	catalog  *catalog.Catalog
	tracker  *found.Tracker
	geocoder geocode.Geocoder
	logger   *zap.Logger
}

func NewSession(cat *catalog.Catalog, tracker *found.Tracker, geocoder geocode.Geocoder, logger *zap.Logger) *Session {
	if geocoder == nil {
		geocoder = geocode.Unavailable{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{catalog: cat, tracker: tracker, geocoder: geocoder, logger: logger}
}

func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Resolve turns search-box text into an origin. "<lat>,<lng>" is used as is;
// anything else goes to the geocoder, whose error is returned untouched.
func (s *Session) Resolve(ctx context.Context, query string) (geo.Coordinate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return geo.Coordinate{}, ErrEmptyQuery
	}
	if c, ok := geo.ParseCoordinate(query); ok {
		return c, nil
	}
	return s.geocoder.Geocode(ctx, query)
}

// Search resolves query and ranks the catalog from there. limit <= 0 returns everything.
func (s *Session) Search(ctx context.Context, query string, limit int) (Result, error) {
	origin, err := s.Resolve(ctx, query)
	if err != nil {
		s.logger.Info("search not resolved", zap.String("query", query), zap.Error(err))
		return Result{}, err
	}
	ranked := nearby.Nearest(origin, s.catalog.All(), limit)
	s.logger.Debug("search ranked",
		zap.String("query", query), zap.Stringer("origin", origin), zap.Int("results", len(ranked)))
	return Result{Query: strings.TrimSpace(query), Origin: origin, Artworks: ranked}, nil
}

// MarkFound marks a catalog artwork found. It reports whether anything changed.
func (s *Session) MarkFound(id string) (bool, error) {
	if _, ok := s.catalog.Get(id); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownArtwork, id)
	}
	return s.tracker.MarkFound(id)
}

// Open returns the artwork only once the user has found it.
func (s *Session) Open(id string) (model.Artwork, error) {
	a, ok := s.catalog.Get(id)
	if !ok {
		return model.Artwork{}, fmt.Errorf("%w: %s", ErrUnknownArtwork, id)
	}
	if !s.tracker.IsFound(id) {
		return model.Artwork{}, ErrNotFoundYet
	}
	return a, nil
}

func (s *Session) IsFound(id string) bool { return s.tracker.IsFound(id) }

// FoundIDs lists found ids that still exist in the catalog.
func (s *Session) FoundIDs() []string {
	var out []string
	for _, id := range s.tracker.IDs() {
		if _, ok := s.catalog.Get(id); ok {
			out = append(out, id)
		}
	}
	return out
}

// Progress counts found artworks against the whole catalog.
func (s *Session) Progress() (found, total int) {
	for _, a := range s.catalog.All() {
		if s.tracker.IsFound(a.ID) {
			found++
		}
	}
	return found, s.catalog.Len()
}

// ClusterProgress counts found artworks inside one cluster.
func (s *Session) ClusterProgress(c model.Cluster) (found, total int) {
	for _, a := range c.Artworks {
		if s.tracker.IsFound(a.ID) {
			found++
		}
	}
	return found, len(c.Artworks)
}

// OnFound registers fn for found events and returns the unsubscribe func.
func (s *Session) OnFound(fn found.Listener) func() { return s.tracker.Subscribe(fn) }

// Lookup resolves a CLI reference: an exact id, else a 1-based index in map order.
func (s *Session) Lookup(ref string) (model.Artwork, error) {
	ref = strings.TrimSpace(ref)
	if a, ok := s.catalog.Get(ref); ok {
		return a, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		ordered := s.MapOrder()
		if n >= 1 && n <= len(ordered) {
			return ordered[n-1], nil
		}
		return model.Artwork{}, fmt.Errorf("%w: index out of range: have %d, got %d", ErrUnknownArtwork, len(ordered), n)
	}
	return model.Artwork{}, fmt.Errorf("%w: %s", ErrUnknownArtwork, ref)
}

// MapOrder flattens clusters, then appends artworks with no position.
func (s *Session) MapOrder() []model.Artwork {
	out := make([]model.Artwork, 0, s.catalog.Len())
	for _, c := range s.catalog.Clusters() {
		out = append(out, c.Artworks...)
	}
	for _, a := range s.catalog.All() {
		if !a.Located() {
			out = append(out, a)
		}
	}
	return out
}
