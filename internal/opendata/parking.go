package opendata

import (
	"encoding/json"
	"strings"
)

type Parking struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Type          string        `json:"type"`
	Capacity      int           `json:"capacity"`
	Address       string        `json:"address"`
	PaymentMethod string        `json:"payment_method"`
	OpeningHours  string        `json:"opening_hours"`
	Coordinates   Coordinates   `json:"coordinates"`
	Availability  *Availability `json:"availability,omitempty"`
}

type Availability struct {
	AvailableSpaces     int    `json:"available_spaces"`
	TotalSpaces         int    `json:"total_spaces"`
	OccupancyPercentage int    `json:"occupancy_percentage"`
	Status              string `json:"status"`
	LastUpdate          string `json:"last_update,omitempty"`
}

// ParseParkings decodes the GPB_WFS_PARKINGS layer.
func ParseParkings(raw json.RawMessage) ([]Parking, error) {
	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, err
	}

	parkings := make([]Parking, 0, len(fc.Features))
	for _, f := range fc.Features {
		p := props(f.Properties)
		parkings = append(parkings, Parking{
			ID:            p.str("id_parking"),
			Name:          p.str("nom"),
			Type:          p.str("type"),
			Capacity:      int(p.num("capacite")),
			Address:       p.str("adresse"),
			PaymentMethod: p.str("paiement"),
			OpeningHours:  p.str("horaires"),
			Coordinates:   f.Geometry.point(),
		})
	}
	return parkings, nil
}

// ParseParkingAvailability decodes the realtime GPB_WFS_PARKINGS_DISPO
// layer, keyed by parking id.
func ParseParkingAvailability(raw json.RawMessage) (map[string]*Availability, error) {
	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, err
	}

	availability := make(map[string]*Availability, len(fc.Features))
	for _, f := range fc.Features {
		p := props(f.Properties)
		id := p.str("id_parking")
		if id == "" {
			continue
		}
		status := p.str("statut")
		if status == "" {
			status = "UNKNOWN"
		}
		availability[id] = &Availability{
			AvailableSpaces:     int(p.num("places_disponibles")),
			TotalSpaces:         int(p.num("capacite")),
			OccupancyPercentage: int(p.num("taux_occupation")),
			Status:              status,
			LastUpdate:          p.str("derniere_mise_a_jour"),
		}
	}
	return availability, nil
}

// MergeAvailability attaches realtime availability to the static records.
// Parkings without a realtime entry get an UNKNOWN placeholder so the
// payload shape stays uniform.
func MergeAvailability(parkings []Parking, availability map[string]*Availability) []Parking {
	for i := range parkings {
		if a, ok := availability[parkings[i].ID]; ok {
			parkings[i].Availability = a
			continue
		}
		parkings[i].Availability = &Availability{
			TotalSpaces: parkings[i].Capacity,
			Status:      "UNKNOWN",
		}
	}
	return parkings
}

// ParkingByID returns the parking with the given id, or nil.
func ParkingByID(parkings []Parking, id string) *Parking {
	for i := range parkings {
		if parkings[i].ID == id {
			return &parkings[i]
		}
	}
	return nil
}

// ParkingsByType filters by type, case-insensitively.
func ParkingsByType(parkings []Parking, parkingType string) []Parking {
	var out []Parking
	for _, p := range parkings {
		if strings.EqualFold(p.Type, parkingType) {
			out = append(out, p)
		}
	}
	return out
}
