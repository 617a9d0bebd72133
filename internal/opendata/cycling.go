package opendata

import (
	"encoding/json"
	"strings"
)

type BikeParking struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Capacity    int         `json:"capacity"`
	Covered     bool        `json:"covered"`
	Secured     bool        `json:"secured"`
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
}

type CyclingRoute struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Name          string          `json:"name"`
	Length        float64         `json:"length"`
	Bidirectional bool            `json:"bidirectional"`
	Status        string          `json:"status"`
	Geometry      json.RawMessage `json:"geometry,omitempty"`
}

// ParseBikeParkings decodes the GPB_WFS_STATIONNEMENT_VELO layer.
func ParseBikeParkings(raw json.RawMessage) ([]BikeParking, error) {
	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, err
	}

	parkings := make([]BikeParking, 0, len(fc.Features))
	for _, f := range fc.Features {
		p := props(f.Properties)
		parkings = append(parkings, BikeParking{
			ID:          p.str("id"),
			Type:        p.str("type"),
			Capacity:    int(p.num("capacite")),
			Covered:     p.boolean("couvert"),
			Secured:     p.boolean("securise"),
			Address:     p.str("adresse"),
			Coordinates: f.Geometry.point(),
		})
	}
	return parkings, nil
}

// ParseCyclingRoutes decodes the GPB_WFS_AMENAGEMENT_CYCLABLE layer. Route
// geometries are line strings, kept raw for clients that want to draw them.
func ParseCyclingRoutes(raw json.RawMessage) ([]CyclingRoute, error) {
	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, err
	}

	routes := make([]CyclingRoute, 0, len(fc.Features))
	for _, f := range fc.Features {
		p := props(f.Properties)
		routes = append(routes, CyclingRoute{
			ID:            p.str("id"),
			Type:          p.str("type_amenagement"),
			Name:          p.str("nom"),
			Length:        p.num("longueur"),
			Bidirectional: p.boolean("bidirectionnel"),
			Status:        p.str("statut"),
			Geometry:      f.Geometry.Coordinates,
		})
	}
	return routes, nil
}

// SecuredBikeParkings filters the secured stands.
func SecuredBikeParkings(parkings []BikeParking) []BikeParking {
	var out []BikeParking
	for _, p := range parkings {
		if p.Secured {
			out = append(out, p)
		}
	}
	return out
}

// CoveredBikeParkings filters the covered stands.
func CoveredBikeParkings(parkings []BikeParking) []BikeParking {
	var out []BikeParking
	for _, p := range parkings {
		if p.Covered {
			out = append(out, p)
		}
	}
	return out
}

// CyclingRoutesByType filters routes by amenagement type.
func CyclingRoutesByType(routes []CyclingRoute, routeType string) []CyclingRoute {
	var out []CyclingRoute
	for _, r := range routes {
		if strings.EqualFold(r.Type, routeType) {
			out = append(out, r)
		}
	}
	return out
}
