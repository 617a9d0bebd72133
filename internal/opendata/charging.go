package opendata

import (
	"encoding/json"
	"strconv"
	"strings"
)

type ChargingStation struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Operator      string      `json:"operator"`
	Owner         string      `json:"owner,omitempty"`
	Address       string      `json:"address"`
	City          string      `json:"city"`
	PostalCode    string      `json:"postal_code,omitempty"`
	AccessType    string      `json:"access_type,omitempty"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	Coordinates   Coordinates `json:"coordinates"`
	Connectors    []Connector `json:"connectors"`
	LastUpdate    string      `json:"last_update,omitempty"`
}

type Connector struct {
	Type  string  `json:"type"`
	Power float64 `json:"power"`
}

// irveResponse is the opendata.reseaux-energies.fr records payload for the
// bornes-irve dataset.
type irveResponse struct {
	Records []struct {
		RecordID string         `json:"recordid"`
		Fields   map[string]any `json:"fields"`
	} `json:"records"`
}

// ParseChargingStations decodes the bornes-irve records.
func ParseChargingStations(raw json.RawMessage) ([]ChargingStation, error) {
	var resp irveResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}

	stations := make([]ChargingStation, 0, len(resp.Records))
	for _, record := range resp.Records {
		f := props(record.Fields)

		name := f.str("n_station")
		if name == "" {
			name = f.str("nom_station")
		}
		city := f.str("commune")
		if city == "" {
			city = "Brest"
		}

		stations = append(stations, ChargingStation{
			ID:            record.RecordID,
			Name:          name,
			Operator:      f.str("operateur"),
			Owner:         f.str("nom_amenageur"),
			Address:       f.str("adresse"),
			City:          city,
			PostalCode:    f.str("code_postal"),
			AccessType:    f.str("condition_acces"),
			PaymentMethod: f.str("moyen_paiement"),
			Coordinates:   geoPoint(record.Fields["geo_point_2d"]),
			Connectors:    parseConnectors(f),
			LastUpdate:    f.str("date_maj"),
		})
	}
	return stations, nil
}

// geo_point_2d comes back as [lat, lon], unlike GeoJSON.
func geoPoint(v any) Coordinates {
	latLon, ok := v.([]any)
	if !ok || len(latLon) < 2 {
		return Coordinates{}
	}
	lat, _ := latLon[0].(float64)
	lon, _ := latLon[1].(float64)
	return Coordinates{Latitude: lat, Longitude: lon}
}

// Connector counts, types and powers come as parallel semicolon-separated
// fields.
func parseConnectors(f props) []Connector {
	count := int(f.num("nbre_pdc"))
	types := splitField(f.str("type_prise"))
	powers := splitField(f.str("puissance_nominale"))

	if count > len(types) {
		count = len(types)
	}
	connectors := make([]Connector, 0, count)
	for i := 0; i < count; i++ {
		c := Connector{Type: types[i]}
		if i < len(powers) {
			c.Power, _ = strconv.ParseFloat(powers[i], 64)
		}
		connectors = append(connectors, c)
	}
	return connectors
}

func splitField(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// StationsByOperator filters stations by operator, case-insensitively.
func StationsByOperator(stations []ChargingStation, operator string) []ChargingStation {
	var out []ChargingStation
	for _, s := range stations {
		if strings.EqualFold(s.Operator, operator) {
			out = append(out, s)
		}
	}
	return out
}

// FastChargingStations returns stations with at least one connector at or
// above minPower kW.
func FastChargingStations(stations []ChargingStation, minPower float64) []ChargingStation {
	var out []ChargingStation
	for _, s := range stations {
		for _, c := range s.Connectors {
			if c.Power >= minPower {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
