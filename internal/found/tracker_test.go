package found

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type memStore struct {
	data   map[string]string
	ttls   map[string]time.Duration
	sets   int
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(key, value string, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func TestLoad_EmptyStore(t *testing.T) {
	tr := New(newMemStore())
	require.NoError(t, tr.Load())
	assert.Equal(t, 0, tr.Len())
	assert.False(t, tr.IsFound("a"))
}

func TestLoad_ReadErrorIsNotFatal(t *testing.T) {
	s := newMemStore()
	s.getErr = errors.New("disk on fire")
	tr := New(s, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, tr.Load())
	assert.Equal(t, 0, tr.Len())
}

func TestLoad_MalformedPayload(t *testing.T) {
	s := newMemStore()
	s.data[DefaultKey] = " , ,,a,, a ,b,"
	tr := New(s)
	require.NoError(t, tr.Load())
	assert.Equal(t, []string{"a", "b"}, tr.IDs())
}

func TestMarkFound_PersistsAndNotifies(t *testing.T) {
	s := newMemStore()
	tr := New(s, WithRetention(48*time.Hour))
	require.NoError(t, tr.Load())

	var got []string
	tr.Subscribe(func(id string) { got = append(got, id) })

	changed, err := tr.MarkFound("leake-street")
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = tr.MarkFound("shoreditch")
	require.NoError(t, err)
	assert.True(t, changed)

	assert.True(t, tr.IsFound("leake-street"))
	assert.Equal(t, "leake-street,shoreditch", s.data[DefaultKey])
	assert.Equal(t, 48*time.Hour, s.ttls[DefaultKey])
	assert.Equal(t, []string{"leake-street", "shoreditch"}, got)
}

func TestMarkFound_Idempotent(t *testing.T) {
	s := newMemStore()
	tr := New(s)
	calls := 0
	tr.Subscribe(func(string) { calls++ })

	_, err := tr.MarkFound("a")
	require.NoError(t, err)
	before := tr.IDs()

	changed, err := tr.MarkFound("a")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, tr.IDs())
	assert.Equal(t, 1, s.sets)
	assert.Equal(t, 1, calls)
}

func TestMarkFound_EmptyID(t *testing.T) {
	tr := New(newMemStore())
	_, err := tr.MarkFound("  ")
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestMarkFound_StoreFailure(t *testing.T) {
	s := newMemStore()
	s.setErr = errors.New("read-only")
	tr := New(s)
	calls := 0
	tr.Subscribe(func(string) { calls++ })

	_, err := tr.MarkFound("a")
	require.Error(t, err)
	assert.True(t, tr.IsFound("a"), "the in-memory set still grows")
	assert.Equal(t, 0, calls)
}

func TestUnsubscribe(t *testing.T) {
	tr := New(newMemStore())
	calls := 0
	stop := tr.Subscribe(func(string) { calls++ })
	_, _ = tr.MarkFound("a")
	stop()
	_, _ = tr.MarkFound("b")
	assert.Equal(t, 1, calls)
}

func TestRoundTripAcrossSessions(t *testing.T) {
	s := newMemStore()
	first := New(s, WithKey("found"))
	require.NoError(t, first.Load())
	for _, id := range []string{"x", "y", "z"} {
		_, err := first.MarkFound(id)
		require.NoError(t, err)
	}

	second := New(s, WithKey("found"))
	require.NoError(t, second.Load())
	assert.ElementsMatch(t, first.IDs(), second.IDs())
}

func TestEncodeDecode(t *testing.T) {
	assert.Equal(t, "", Encode(nil))
	assert.Nil(t, Decode(""))
	assert.Equal(t, []string{"a", "b"}, Decode(Encode([]string{"a", "b"})))
}
