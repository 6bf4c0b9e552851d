// Package found tracks which artworks the user has discovered.
//
// An artwork moves from unfound to found exactly once; there is no way back.
// The whole set is written to a Store after every change, encoded as a
// comma-separated list of ids under a single key.
package found

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultKey       = "found_artworks"
	DefaultRetention = 30 * 24 * time.Hour
)

// ErrEmptyID is returned when marking an artwork with a blank id.
var ErrEmptyID = errors.New("found: empty artwork id")

// Store is the small key/value backend the set is flushed to.
// Expiry is the store's business; the tracker only passes the ttl along.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string, ttl time.Duration) error
}

// Listener is notified after an id has been marked found and persisted.
type Listener func(id string)

type Tracker struct {
	store     Store
	key       string
	retention time.Duration
	logger    *zap.Logger

	ids       []string
	set       map[string]struct{}
	listeners map[int]Listener
	nextSub   int
}

type Option func(*Tracker)

func WithKey(key string) Option { return func(t *Tracker) { t.key = key } }

func WithRetention(d time.Duration) Option { return func(t *Tracker) { t.retention = d } }

func WithLogger(l *zap.Logger) Option { return func(t *Tracker) { t.logger = l } }

func New(store Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:     store,
		key:       DefaultKey,
		retention: DefaultRetention,
		logger:    zap.NewNop(),
		set:       map[string]struct{}{},
		listeners: map[int]Listener{},
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Load replaces the in-memory set with what the store holds.
// A missing, unreadable or garbled entry leaves the set empty and is not an error.
func (t *Tracker) Load() error {
	t.ids = nil
	t.set = map[string]struct{}{}

	raw, ok, err := t.store.Get(t.key)
	if err != nil {
		t.logger.Warn("found set unreadable, starting empty", zap.String("key", t.key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	for _, id := range Decode(raw) {
		t.add(id)
	}
	t.logger.Debug("found set loaded", zap.Int("count", len(t.ids)))
	return nil
}

// MarkFound records id as found, flushes the set and notifies listeners.
// It reports false when id was already found, in which case nothing is written.
func (t *Tracker) MarkFound(id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, ErrEmptyID
	}
	if t.IsFound(id) {
		return false, nil
	}
	t.add(id)
	if err := t.store.Set(t.key, Encode(t.ids), t.retention); err != nil {
		return true, fmt.Errorf("persist found set: %w", err)
	}
	t.logger.Info("artwork marked found", zap.String("id", id), zap.Int("found", len(t.ids)))
	for _, fn := range t.listenersSnapshot() {
		fn(id)
	}
	return true, nil
}

func (t *Tracker) IsFound(id string) bool {
	_, ok := t.set[id]
	return ok
}

// IDs returns found ids in the order they were found.
func (t *Tracker) IDs() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

func (t *Tracker) Len() int { return len(t.ids) }

// Subscribe registers fn and returns a func that removes it again.
func (t *Tracker) Subscribe(fn Listener) func() {
	id := t.nextSub
	t.nextSub++
	t.listeners[id] = fn
	return func() { delete(t.listeners, id) }
}

func (t *Tracker) listenersSnapshot() []Listener {
	out := make([]Listener, 0, len(t.listeners))
	for i := 0; i < t.nextSub; i++ {
		if fn, ok := t.listeners[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func (t *Tracker) add(id string) {
	if _, ok := t.set[id]; ok {
		return
	}
	t.set[id] = struct{}{}
	t.ids = append(t.ids, id)
}

// Encode joins ids into the persisted form.
func Encode(ids []string) string { return strings.Join(ids, ",") }

// Decode splits the persisted form, dropping blanks and repeats.
func Decode(raw string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
