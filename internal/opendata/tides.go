package opendata

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Tide type markers as served to clients.
const (
	TideHigh         = "HIGH"
	TideLow          = "LOW"
	TideIntermediate = "INTERMEDIATE"

	TideRising  = "RISING"
	TideFalling = "FALLING"
)

type TidePrediction struct {
	Timestamp   string  `json:"timestamp"`
	WaterLevel  float64 `json:"water_level"`
	Type        string  `json:"tide_type"`
	Coefficient int     `json:"coefficient,omitempty"`
}

// TideStatus describes where the tide stands right now.
type TideStatus struct {
	CurrentLevel float64         `json:"current_level"`
	Timestamp    string          `json:"timestamp"`
	Direction    string          `json:"tide_direction"`
	NextHighTide *TidePrediction `json:"next_high_tide,omitempty"`
	NextLowTide  *TidePrediction `json:"next_low_tide,omitempty"`
}

// shomResponse is the SHOM water-level payload.
type shomResponse struct {
	Data []struct {
		Datetime    string  `json:"datetime"`
		Height      float64 `json:"height"`
		HighTide    bool    `json:"high_tide"`
		LowTide     bool    `json:"low_tide"`
		Coefficient int     `json:"coefficient"`
	} `json:"data"`
}

// ParseTides decodes the SHOM water-level response, sorted by timestamp.
func ParseTides(raw json.RawMessage) ([]TidePrediction, error) {
	var resp shomResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}

	tides := make([]TidePrediction, 0, len(resp.Data))
	for _, item := range resp.Data {
		tideType := TideIntermediate
		if item.HighTide {
			tideType = TideHigh
		} else if item.LowTide {
			tideType = TideLow
		}
		tides = append(tides, TidePrediction{
			Timestamp:   item.Datetime,
			WaterLevel:  item.Height,
			Type:        tideType,
			Coefficient: item.Coefficient,
		})
	}
	sort.Slice(tides, func(i, j int) bool { return tides[i].Timestamp < tides[j].Timestamp })
	return tides, nil
}

// NextTides returns the next count high and low tides after now.
func NextTides(tides []TidePrediction, now time.Time, count int) []TidePrediction {
	cutoff := now.Format(time.RFC3339)
	var out []TidePrediction
	for _, t := range tides {
		if t.Type == TideIntermediate || t.Timestamp < cutoff {
			continue
		}
		out = append(out, t)
		if len(out) == count {
			break
		}
	}
	return out
}

// TidesForDate returns all predictions whose timestamp falls on the given
// YYYY-MM-DD date.
func TidesForDate(tides []TidePrediction, date string) []TidePrediction {
	var out []TidePrediction
	for _, t := range tides {
		if strings.HasPrefix(t.Timestamp, date) {
			out = append(out, t)
		}
	}
	return out
}

// CurrentTideStatus finds the latest prediction at or before now and
// reports whether the tide is rising or falling, with the next high and
// low tides.
func CurrentTideStatus(tides []TidePrediction, now time.Time) *TideStatus {
	if len(tides) == 0 {
		return nil
	}

	cutoff := now.Format(time.RFC3339)
	current := 0
	for i, t := range tides {
		if t.Timestamp > cutoff {
			if i > 0 {
				current = i - 1
			}
			break
		}
		current = i
	}

	status := &TideStatus{
		CurrentLevel: tides[current].WaterLevel,
		Timestamp:    tides[current].Timestamp,
		Direction:    TideFalling,
	}
	if current+1 < len(tides) && tides[current+1].WaterLevel > tides[current].WaterLevel {
		status.Direction = TideRising
	}

	for i := current; i < len(tides); i++ {
		if status.NextHighTide == nil && tides[i].Type == TideHigh {
			t := tides[i]
			status.NextHighTide = &t
		}
		if status.NextLowTide == nil && tides[i].Type == TideLow {
			t := tides[i]
			status.NextLowTide = &t
		}
	}
	return status
}
