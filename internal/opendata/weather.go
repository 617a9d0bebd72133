package opendata

import (
	"encoding/json"
	"sort"
	"strings"
)

// WeatherForecast is one Infoclimat GFS time step.
type WeatherForecast struct {
	Timestamp     string   `json:"timestamp"`
	Temperature2m *float64 `json:"temperature_2m,omitempty"`
	WindSpeed     *float64 `json:"wind_speed,omitempty"`
	WindGusts     *float64 `json:"wind_gusts,omitempty"`
	WindDirection *float64 `json:"wind_direction,omitempty"`
	Precipitation *float64 `json:"precipitation,omitempty"`
	Humidity      *float64 `json:"humidity,omitempty"`
	Pressure      *float64 `json:"pressure,omitempty"`
}

// ParseWeatherForecasts decodes the Infoclimat GFS payload. The payload
// mixes metadata keys with timestamp keys; only keys that look like dates
// are forecasts.
func ParseWeatherForecasts(raw json.RawMessage) ([]WeatherForecast, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	var forecasts []WeatherForecast
	for key, value := range payload {
		if !strings.HasPrefix(key, "20") {
			continue
		}

		var step struct {
			Temperature map[string]*float64 `json:"temperature"`
			VentMoyen   map[string]*float64 `json:"vent_moyen"`
			VentRafales map[string]*float64 `json:"vent_rafales"`
			VentDir     map[string]*float64 `json:"vent_direction"`
			Pluie       *float64            `json:"pluie"`
			Humidite    map[string]*float64 `json:"humidite"`
			Pression    map[string]*float64 `json:"pression"`
		}
		if err := json.Unmarshal(value, &step); err != nil {
			continue
		}

		forecasts = append(forecasts, WeatherForecast{
			Timestamp:     key,
			Temperature2m: step.Temperature["2m"],
			WindSpeed:     step.VentMoyen["10m"],
			WindGusts:     step.VentRafales["10m"],
			WindDirection: step.VentDir["10m"],
			Precipitation: step.Pluie,
			Humidity:      step.Humidite["2m"],
			Pressure:      step.Pression["niveau_de_la_mer"],
		})
	}
	sort.Slice(forecasts, func(i, j int) bool { return forecasts[i].Timestamp < forecasts[j].Timestamp })
	return forecasts, nil
}
