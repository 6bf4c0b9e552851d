package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// JSON-backed key/value storage with per-key expiry. Single file,
// human-readable. No locking; one local user, one process.

const DataFileName = "state.json"

var errCorrupt = errors.New("corrupt store file")

type entry struct {
	Value     string     `json:"value"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type Store struct {
	path string
	now  func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func New(path string, opts ...Option) *Store {
	s := &Store{path: path, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Path() string { return s.path }

// Get returns the live value for key. An expired entry or a corrupt file
// reads as absent.
func (s *Store) Get(key string) (string, bool, error) {
	entries, err := s.read()
	if errors.Is(err, errCorrupt) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	e, ok := entries[key]
	if !ok || s.expired(e) {
		return "", false, nil
	}
	return e.Value, true, nil
}

// Set stores value under key. ttl <= 0 keeps the entry forever.
func (s *Store) Set(key, value string, ttl time.Duration) error {
	entries, err := s.read()
	if err != nil {
		// a corrupt file is replaced rather than blocking every write
		entries = map[string]entry{}
	}
	for k, e := range entries {
		if s.expired(e) {
			delete(entries, k)
		}
	}
	e := entry{Value: value}
	if ttl > 0 {
		exp := s.now().Add(ttl).UTC()
		e.ExpiresAt = &exp
	}
	entries[key] = e
	return s.write(entries)
}

// Delete removes key; deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	entries, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return s.write(entries)
}

func (s *Store) expired(e entry) bool {
	return e.ExpiresAt != nil && !s.now().Before(*e.ExpiresAt)
}

func (s *Store) read() (map[string]entry, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]entry{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	entries := map[string]entry{}
	if len(b) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	return entries, nil
}

func (s *Store) write(entries map[string]entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
