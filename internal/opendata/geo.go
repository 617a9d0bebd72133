// Package opendata decodes the Brest métropole open-data feeds into typed
// records and answers proximity and filter queries over them.
package opendata

import (
	"math"
	"sort"
)

const earthRadiusKm = 6371

// DefaultNearestLimit caps proximity answers when the caller gives no
// usable limit.
const DefaultNearestLimit = 5

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Haversine returns the great-circle distance in kilometers.
func Haversine(a, b Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// Nearby pairs an item with its distance from the query point.
type Nearby[T any] struct {
	Item       T       `json:"item"`
	DistanceKm float64 `json:"distance_km"`
}

// Nearest returns up to limit items within maxDistanceKm of the point,
// closest first. Items without coordinates (0,0) are ignored. A
// non-positive limit falls back to DefaultNearestLimit; limit comes
// straight from client input.
func Nearest[T any](items []T, coords func(T) Coordinates, from Coordinates, maxDistanceKm float64, limit int) []Nearby[T] {
	if limit <= 0 {
		limit = DefaultNearestLimit
	}
	out := make([]Nearby[T], 0, limit)
	for _, item := range items {
		c := coords(item)
		if c.Latitude == 0 && c.Longitude == 0 {
			continue
		}
		d := Haversine(from, c)
		if d <= maxDistanceKm {
			out = append(out, Nearby[T]{Item: item, DistanceKm: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
