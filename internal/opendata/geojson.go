package opendata

import (
	"encoding/json"
	"strings"
)

// featureCollection covers the WFS GetFeature responses from the Brest
// métropole GIS. Property keys come back in either case depending on the
// layer, so lookups go through props.
type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties map[string]any `json:"properties"`
	Geometry   geometry       `json:"geometry"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// point returns the coordinates for Point geometries, zero otherwise.
func (g geometry) point() Coordinates {
	if g.Type != "Point" {
		return Coordinates{}
	}
	var lonLat []float64
	if err := json.Unmarshal(g.Coordinates, &lonLat); err != nil || len(lonLat) < 2 {
		return Coordinates{}
	}
	return Coordinates{Latitude: lonLat[1], Longitude: lonLat[0]}
}

type props map[string]any

// get looks a key up case-insensitively.
func (p props) get(key string) any {
	if v, ok := p[key]; ok {
		return v
	}
	if v, ok := p[strings.ToUpper(key)]; ok {
		return v
	}
	return nil
}

func (p props) str(key string) string {
	s, _ := p.get(key).(string)
	return s
}

func (p props) num(key string) float64 {
	n, _ := p.get(key).(float64)
	return n
}

func (p props) boolean(key string) bool {
	switch v := p.get(key).(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1" || strings.EqualFold(v, "oui")
	case float64:
		return v != 0
	}
	return false
}
