package opendata

import "encoding/json"

type Event struct {
	UID         json.Number `json:"uid"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Location    string      `json:"location,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	StartTime   string      `json:"start_time,omitempty"`
	EndTime     string      `json:"end_time,omitempty"`
}

// openAgendaResponse is the OpenAgenda v2 events payload. Titles and
// descriptions are multilingual maps.
type openAgendaResponse struct {
	Events []struct {
		UID         json.Number       `json:"uid"`
		Title       map[string]string `json:"title"`
		Description map[string]string `json:"description"`
		Location    struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"location"`
		Timings []struct {
			Begin string `json:"begin"`
			End   string `json:"end"`
		} `json:"timings"`
	} `json:"events"`
}

// ParseEvents decodes an OpenAgenda response, preferring French text.
func ParseEvents(raw json.RawMessage) ([]Event, error) {
	var resp openAgendaResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(resp.Events))
	for _, e := range resp.Events {
		event := Event{
			UID:         e.UID,
			Title:       localized(e.Title),
			Description: localized(e.Description),
			Location:    e.Location.Name,
			Coordinates: Coordinates{Latitude: e.Location.Latitude, Longitude: e.Location.Longitude},
		}
		if len(e.Timings) > 0 {
			event.StartTime = e.Timings[0].Begin
			event.EndTime = e.Timings[0].End
		}
		events = append(events, event)
	}
	return events, nil
}

func localized(m map[string]string) string {
	if s, ok := m["fr"]; ok {
		return s
	}
	for _, s := range m {
		return s
	}
	return ""
}
