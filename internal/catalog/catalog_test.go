package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Makepad-fr/artspot/internal/geo"
	"github.com/Makepad-fr/artspot/internal/model"
)

type failingSource struct{ err error }

func (f failingSource) Name() string { return "failing" }
func (f failingSource) Fetch(context.Context) ([]model.Artwork, error) {
	return nil, f.err
}

type staticSource []model.Artwork

func (s staticSource) Name() string { return "static" }
func (s staticSource) Fetch(context.Context) ([]model.Artwork, error) {
	return s, nil
}

const feed = `[
  {"id": "a", "title": "A", "artist": "X", "position": {"lat": 51.5, "lng": -0.1}},
  {"id": "b", "title": "B", "artist": "Y", "position": {"lat": 51.5, "lng": -0.1}},
  {"id": "c", "title": "C", "artist": "Z"}
]`

func TestParse_ArrayAndWrapper(t *testing.T) {
	list, err := Parse([]byte(feed))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Nil(t, list[2].Position)

	wrapped, err := Parse([]byte(`{"artworks": ` + feed + `}`))
	require.NoError(t, err)
	assert.Equal(t, list, wrapped)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	list, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestHTTPSource_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second).Fetch(context.Background())
	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusBadGateway, he.StatusCode)
	assert.Contains(t, he.Body, "upstream down")
}

func TestLoad_FirstHealthySourceWins(t *testing.T) {
	cat, name := Load(context.Background(), zaptest.NewLogger(t),
		failingSource{err: errors.New("offline")},
		staticSource{},
		staticSource{{ID: "x", Title: "X", Position: &geo.Coordinate{Lat: 1, Lng: 1}}},
	)
	assert.Equal(t, "static", name)
	assert.Equal(t, 1, cat.Len())
}

func TestLoad_FallsBackToBuiltin(t *testing.T) {
	cat, name := Load(context.Background(), zaptest.NewLogger(t),
		failingSource{err: errors.New("offline")},
		EmbeddedSource{Path: "data/missing.json"},
	)
	assert.Equal(t, "builtin", name)
	assert.Equal(t, len(builtin), cat.Len())
}

func TestDefaultSources_BundledChain(t *testing.T) {
	srcs := DefaultSources("", time.Second)
	require.Len(t, srcs, 2)

	cat, name := Load(context.Background(), nil, srcs...)
	assert.Equal(t, "bundled:"+PrimaryDataset, name)
	_, ok := cat.Get("leake-street-tunnel")
	assert.True(t, ok)

	leake, ok := cat.ClusterAt(geo.Coordinate{Lat: 51.5018, Lng: -0.1150})
	require.True(t, ok)
	assert.Len(t, leake.Artworks, 2)
}

func TestDefaultSources_BrokenFileFallsToBundledFallback(t *testing.T) {
	p := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, os.WriteFile(p, []byte("{oops"), 0o644))

	cat, name := Load(context.Background(), nil, DefaultSources(p, time.Second)...)
	assert.Equal(t, "bundled:"+FallbackDataset, name)
	assert.Equal(t, 5, cat.Len())
	for _, a := range cat.All() {
		assert.NotEmpty(t, a.ID)
	}
}

func TestDefaultSources_Kinds(t *testing.T) {
	_, isHTTP := DefaultSources("https://example.org/feed.json", time.Second)[0].(*HTTPSource)
	assert.True(t, isHTTP)
	_, isFile := DefaultSources("/tmp/feed.json", time.Second)[0].(FileSource)
	assert.True(t, isFile)
}

func TestNew_IDsAndDuplicates(t *testing.T) {
	p := &geo.Coordinate{Lat: 51.5, Lng: -0.1}
	cat := New([]model.Artwork{
		{Title: "Untitled", Position: p},
		{ID: "dup", Title: "First"},
		{ID: "dup", Title: "Second"},
	}, zaptest.NewLogger(t))

	require.Equal(t, 2, cat.Len())
	derived := cat.All()[0].ID
	assert.Equal(t, DeriveID(model.Artwork{Title: "Untitled", Position: p}), derived)
	assert.NotEqual(t, derived, DeriveID(model.Artwork{Title: "Untitled"}))

	a, ok := cat.Get("dup")
	require.True(t, ok)
	assert.Equal(t, "First", a.Title)

	require.Len(t, cat.Clusters(), 1)
	_, ok = cat.ClusterAt(geo.Coordinate{Lat: 0, Lng: 0})
	assert.False(t, ok)
}

func TestNew_CommaInIDIsRederived(t *testing.T) {
	p := &geo.Coordinate{Lat: 51.5, Lng: -0.1}
	cat := New([]model.Artwork{
		{ID: "a,b", Title: "Split", Position: p},
		{ID: "a", Title: "Plain"},
	}, zaptest.NewLogger(t))

	require.Equal(t, 2, cat.Len())
	_, ok := cat.Get("a,b")
	assert.False(t, ok)

	id := cat.All()[0].ID
	assert.Equal(t, DeriveID(model.Artwork{Title: "Split", Position: p}), id)
	assert.NotContains(t, id, ",")
	a, ok := cat.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Split", a.Title)
}
