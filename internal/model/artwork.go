package model

import "github.com/Makepad-fr/artspot/internal/geo"

// Artwork is one street-art record as loaded from a feed.
// Records are never mutated after load.
type Artwork struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Artist      string          `json:"artist"`
	Medium      string          `json:"medium,omitempty"`
	Date        string          `json:"date,omitempty"`
	Description string          `json:"description,omitempty"`
	City        string          `json:"city,omitempty"`
	Position    *geo.Coordinate `json:"position,omitempty"`
	Image       string          `json:"image,omitempty"`
	Link        string          `json:"link,omitempty"`
}

// Located reports whether the artwork has a usable position.
func (a Artwork) Located() bool {
	return a.Position != nil && a.Position.Valid()
}

// RankedArtwork pairs an artwork with its distance in miles from one search origin.
type RankedArtwork struct {
	Artwork
	Distance float64 `json:"distance"`
}

// Cluster is every artwork sitting on one exact coordinate.
type Cluster struct {
	Position geo.Coordinate `json:"position"`
	Artworks []Artwork      `json:"artworks"`
}
