package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Makepad-fr/artspot/internal/model"
)

//go:embed data/*.json
var bundled embed.FS

const (
	PrimaryDataset  = "data/artworks.json"
	FallbackDataset = "data/fallback.json"

	maxErrorBody = 500
	userAgent    = "artspot/1.0 (+https://github.com/Makepad-fr/artspot)"
)

// Source supplies raw artwork records.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Artwork, error)
}

// HTTPError is a non-2xx response from a remote feed.
type HTTPError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: %s (status %d): %s", e.URL, http.StatusText(e.StatusCode), e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.URL, http.StatusText(e.StatusCode), e.StatusCode)
}

// HTTPSource fetches a JSON feed over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (s *HTTPSource) Name() string { return s.URL }

func (s *HTTPSource) Fetch(ctx context.Context) ([]model.Artwork, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b := string(body)
		if len(b) > maxErrorBody {
			b = b[:maxErrorBody] + "..."
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: b, URL: s.URL}
	}
	return Parse(body)
}

// FileSource reads a JSON feed from disk.
type FileSource struct{ Path string }

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Fetch(context.Context) ([]model.Artwork, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(b)
}

// EmbeddedSource reads one of the datasets compiled into the binary.
type EmbeddedSource struct{ Path string }

func (s EmbeddedSource) Name() string { return "bundled:" + s.Path }

func (s EmbeddedSource) Fetch(context.Context) ([]model.Artwork, error) {
	b, err := bundled.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read bundled dataset: %w", err)
	}
	return Parse(b)
}

type builtinSource struct{}

func (builtinSource) Name() string { return "builtin" }

func (builtinSource) Fetch(context.Context) ([]model.Artwork, error) {
	out := make([]model.Artwork, len(builtin))
	copy(out, builtin)
	return out, nil
}

// Builtin is the last-resort hardcoded list. It never fails.
func Builtin() Source { return builtinSource{} }

// Parse accepts either a bare JSON array of records or {"artworks": [...]}.
func Parse(data []byte) ([]model.Artwork, error) {
	var list []model.Artwork
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var wrapper struct {
		Artworks []model.Artwork `json:"artworks"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("unmarshalling feed: %w", err)
	}
	return wrapper.Artworks, nil
}
