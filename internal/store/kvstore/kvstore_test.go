package kvstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/artspot/internal/found"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newStore(t *testing.T) (*Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	return New(filepath.Join(t.TempDir(), "nested", DataFileName), WithClock(c.now)), c
}

func TestGet_MissingFile(t *testing.T) {
	s, _ := newStore(t)
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSetGet(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Set("k", "a,b", time.Hour))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a,b", v)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestExpiry(t *testing.T) {
	s, c := newStore(t)
	require.NoError(t, s.Set("k", "v", 30*24*time.Hour))
	require.NoError(t, s.Set("forever", "v", 0))

	c.t = c.t.Add(29 * 24 * time.Hour)
	_, ok, _ := s.Get("k")
	assert.True(t, ok)

	c.t = c.t.Add(24 * time.Hour)
	_, ok, _ = s.Get("k")
	assert.False(t, ok)
	_, ok, _ = s.Get("forever")
	assert.True(t, ok)
}

func TestSet_RefreshesExpiry(t *testing.T) {
	s, c := newStore(t)
	require.NoError(t, s.Set("k", "v1", time.Hour))
	c.t = c.t.Add(50 * time.Minute)
	require.NoError(t, s.Set("k", "v2", time.Hour))
	c.t = c.t.Add(50 * time.Minute)
	v, ok, _ := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestCorruptFile(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))

	_, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("k", "v", 0))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestUnreadableFileIsAnError(t *testing.T) {
	s, _ := newStore(t)
	// a directory where the file should be cannot be read
	require.NoError(t, os.MkdirAll(s.Path(), 0o700))
	_, _, err := s.Get("k")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Delete("nope"))
	require.NoError(t, s.Set("k", "v", 0))
	require.NoError(t, s.Delete("k"))
	_, ok, _ := s.Get("k")
	assert.False(t, ok)
}

func TestBacksFoundTracker(t *testing.T) {
	s, c := newStore(t)
	tr := found.New(s)
	require.NoError(t, tr.Load())
	_, err := tr.MarkFound("a")
	require.NoError(t, err)
	_, err = tr.MarkFound("b")
	require.NoError(t, err)

	fresh := found.New(New(s.Path(), WithClock(c.now)))
	require.NoError(t, fresh.Load())
	assert.Equal(t, []string{"a", "b"}, fresh.IDs())
}
