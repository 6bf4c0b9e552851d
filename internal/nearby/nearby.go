// Package nearby ranks artworks by distance and groups them into map clusters.
package nearby

import (
	"sort"

	"github.com/Makepad-fr/artspot/internal/geo"
	"github.com/Makepad-fr/artspot/internal/model"
)

// Rank returns every located artwork sorted by distance from origin.
// Artworks without a valid position are dropped. Equal distances keep input order.
func Rank(origin geo.Coordinate, artworks []model.Artwork) []model.RankedArtwork {
	out := make([]model.RankedArtwork, 0, len(artworks))
	for _, a := range artworks {
		if !a.Located() {
			continue
		}
		out = append(out, model.RankedArtwork{
			Artwork:  a,
			Distance: geo.Distance(origin, *a.Position),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out
}

// Nearest is Rank truncated to n entries. n <= 0 returns the full ranking.
func Nearest(origin geo.Coordinate, artworks []model.Artwork, n int) []model.RankedArtwork {
	ranked := Rank(origin, artworks)
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Group partitions located artworks by exact coordinate. Clusters come back
// in order of first appearance and keep input order internally.
// No distance tolerance is applied: two pieces a metre apart are two clusters.
func Group(artworks []model.Artwork) []model.Cluster {
	index := make(map[geo.Coordinate]int)
	var clusters []model.Cluster
	for _, a := range artworks {
		if !a.Located() {
			continue
		}
		key := *a.Position
		i, ok := index[key]
		if !ok {
			i = len(clusters)
			index[key] = i
			clusters = append(clusters, model.Cluster{Position: key})
		}
		clusters[i].Artworks = append(clusters[i].Artworks, a)
	}
	return clusters
}
