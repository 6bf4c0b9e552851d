package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Makepad-fr/artspot/internal/catalog"
	"github.com/Makepad-fr/artspot/internal/found"
	"github.com/Makepad-fr/artspot/internal/geo"
	"github.com/Makepad-fr/artspot/internal/geocode"
	"github.com/Makepad-fr/artspot/internal/model"
)

type memStore map[string]string

func (m memStore) Get(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memStore) Set(key, value string, _ time.Duration) error {
	m[key] = value
	return nil
}

type fakeGeocoder struct {
	hits  map[string]geo.Coordinate
	calls []string
}

func (f *fakeGeocoder) Geocode(_ context.Context, q string) (geo.Coordinate, error) {
	f.calls = append(f.calls, q)
	if c, ok := f.hits[q]; ok {
		return c, nil
	}
	return geo.Coordinate{}, &geocode.Error{Status: geocode.StatusZeroResults, Query: q}
}

func newSession(t *testing.T) (*Session, *fakeGeocoder, memStore) {
	t.Helper()
	cat := catalog.New([]model.Artwork{
		{ID: "london", Title: "London", Position: &geo.Coordinate{Lat: 51.5074, Lng: -0.1278}},
		{ID: "manchester", Title: "Manchester", Position: &geo.Coordinate{Lat: 53.4808, Lng: -2.2426}},
		{ID: "london-2", Title: "London 2", Position: &geo.Coordinate{Lat: 51.5074, Lng: -0.1278}},
		{ID: "lost", Title: "Lost"},
	}, nil)
	store := memStore{}
	tr := found.New(store)
	require.NoError(t, tr.Load())
	g := &fakeGeocoder{hits: map[string]geo.Coordinate{"M1 1AE": {Lat: 53.48, Lng: -2.24}}}
	return NewSession(cat, tr, g, zaptest.NewLogger(t)), g, store
}

func TestResolve_CoordinatesSkipGeocoder(t *testing.T) {
	s, g, _ := newSession(t)
	c, err := s.Resolve(context.Background(), " 51.5, -0.1 ")
	require.NoError(t, err)
	assert.Equal(t, geo.Coordinate{Lat: 51.5, Lng: -0.1}, c)
	assert.Empty(t, g.calls)
}

func TestResolve_FreeTextGoesToGeocoder(t *testing.T) {
	s, g, _ := newSession(t)
	c, err := s.Resolve(context.Background(), "M1 1AE")
	require.NoError(t, err)
	assert.Equal(t, geo.Coordinate{Lat: 53.48, Lng: -2.24}, c)
	assert.Equal(t, []string{"M1 1AE"}, g.calls)
}

func TestResolve_Empty(t *testing.T) {
	s, _, _ := newSession(t)
	_, err := s.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearch_Ranks(t *testing.T) {
	s, _, _ := newSession(t)
	res, err := s.Search(context.Background(), "53.4808,-2.2426", 0)
	require.NoError(t, err)
	require.Len(t, res.Artworks, 3)
	assert.Equal(t, "manchester", res.Artworks[0].ID)
	assert.Equal(t, "london", res.Artworks[1].ID)
	assert.Equal(t, "london-2", res.Artworks[2].ID)

	res, err = s.Search(context.Background(), "53.4808,-2.2426", 1)
	require.NoError(t, err)
	assert.Len(t, res.Artworks, 1)
}

func TestSearch_GeocodeFailureStopsRanking(t *testing.T) {
	s, _, _ := newSession(t)
	res, err := s.Search(context.Background(), "SW1A 1AA", 0)
	var ge *geocode.Error
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "Geocoding failed: ZERO_RESULTS", err.Error())
	assert.Empty(t, res.Artworks)
}

func TestMarkFoundAndOpen(t *testing.T) {
	s, _, store := newSession(t)

	_, err := s.Open("london")
	assert.ErrorIs(t, err, ErrNotFoundYet)
	_, err = s.Open("nope")
	assert.ErrorIs(t, err, ErrUnknownArtwork)
	_, err = s.MarkFound("nope")
	assert.ErrorIs(t, err, ErrUnknownArtwork)

	var notified []string
	s.OnFound(func(id string) { notified = append(notified, id) })

	changed, err := s.MarkFound("london")
	require.NoError(t, err)
	assert.True(t, changed)
	a, err := s.Open("london")
	require.NoError(t, err)
	assert.Equal(t, "London", a.Title)
	assert.Equal(t, []string{"london"}, notified)
	assert.Equal(t, "london", store[found.DefaultKey])

	f, total := s.Progress()
	assert.Equal(t, 1, f)
	assert.Equal(t, 4, total)

	cl := s.Catalog().Clusters()[0]
	f, total = s.ClusterProgress(cl)
	assert.Equal(t, 1, f)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"london"}, s.FoundIDs())
}

func TestLookup(t *testing.T) {
	s, _, _ := newSession(t)

	a, err := s.Lookup("manchester")
	require.NoError(t, err)
	assert.Equal(t, "manchester", a.ID)

	// map order: london cluster (london, london-2), manchester, then unlocated
	a, err = s.Lookup("2")
	require.NoError(t, err)
	assert.Equal(t, "london-2", a.ID)
	a, err = s.Lookup("4")
	require.NoError(t, err)
	assert.Equal(t, "lost", a.ID)

	_, err = s.Lookup("9")
	assert.ErrorIs(t, err, ErrUnknownArtwork)
	_, err = s.Lookup("banksy")
	assert.ErrorIs(t, err, ErrUnknownArtwork)
}
