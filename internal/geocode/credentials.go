package geocode

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	credFileName = "credentials.json"
	EnvAPIKey    = "ARTSPOT_MAPS_KEY"
)

type KeyInfo struct {
	Key       string    `json:"key"`
	Source    string    `json:"source"`     // "env" | "file"
	CreatedAt time.Time `json:"created_at"` // when we saved to file
}

// Credentials stores the Maps API key under Dir.
type Credentials struct {
	Dir string
}

func (c Credentials) path() string { return filepath.Join(c.Dir, credFileName) }

// GetKey returns the env override, else the saved key, else nil.
func (c Credentials) GetKey() (*KeyInfo, error) {
	if env := strings.TrimSpace(os.Getenv(EnvAPIKey)); env != "" {
		return &KeyInfo{Key: stripPrefix(env), Source: "env"}, nil
	}
	b, err := os.ReadFile(c.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ki KeyInfo
	if err := json.Unmarshal(b, &ki); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ki.Key = stripPrefix(ki.Key)
	if ki.Key == "" {
		return nil, nil
	}
	return &ki, nil
}

func (c Credentials) SetKey(key string) error {
	key = stripPrefix(strings.TrimSpace(key))
	if key == "" {
		return fmt.Errorf("empty key")
	}
	if err := os.MkdirAll(c.Dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(KeyInfo{Key: key, Source: "file", CreatedAt: time.Now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	// owner-only
	if err := os.WriteFile(c.path(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (c Credentials) DeleteKey() error {
	if err := os.Remove(c.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func stripPrefix(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "key=") {
		return strings.TrimSpace(s[4:])
	}
	return s
}
