package opendata

import "encoding/json"

type AirQuality struct {
	AQI        int                 `json:"aqi"`
	Station    string              `json:"station"`
	Timestamp  string              `json:"timestamp,omitempty"`
	Pollutants map[string]*float64 `json:"pollutants"`
	Level      string              `json:"level"`
	Source     string              `json:"source"`

	Recommendations *HealthRecommendations `json:"recommendations,omitempty"`
}

type HealthRecommendations struct {
	General         string `json:"general"`
	SensitiveGroups string `json:"sensitive_groups"`
	OutdoorActivity string `json:"outdoor_activity"`
}

// waqiResponse is the World Air Quality Index feed payload.
type waqiResponse struct {
	Data struct {
		AQI  int `json:"aqi"`
		City struct {
			Name string `json:"name"`
		} `json:"city"`
		Time struct {
			ISO string `json:"iso"`
		} `json:"time"`
		IAQI map[string]struct {
			V float64 `json:"v"`
		} `json:"iaqi"`
	} `json:"data"`
}

// ParseAirQuality decodes a WAQI feed response.
func ParseAirQuality(raw json.RawMessage) (*AirQuality, error) {
	var resp waqiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}

	station := resp.Data.City.Name
	if station == "" {
		station = "Brest"
	}

	pollutants := make(map[string]*float64, 6)
	for _, key := range []string{"pm25", "pm10", "o3", "no2", "so2", "co"} {
		if v, ok := resp.Data.IAQI[key]; ok {
			value := v.V
			pollutants[key] = &value
		} else {
			pollutants[key] = nil
		}
	}

	return &AirQuality{
		AQI:        resp.Data.AQI,
		Station:    station,
		Timestamp:  resp.Data.Time.ISO,
		Pollutants: pollutants,
		Level:      AQILevel(resp.Data.AQI),
		Source:     "WAQI",
	}, nil
}

// AQILevel maps an AQI value to the standard qualitative bands.
func AQILevel(aqi int) string {
	switch {
	case aqi <= 50:
		return "Good"
	case aqi <= 100:
		return "Moderate"
	case aqi <= 150:
		return "Unhealthy for Sensitive Groups"
	case aqi <= 200:
		return "Unhealthy"
	case aqi <= 300:
		return "Very Unhealthy"
	default:
		return "Hazardous"
	}
}

// RecommendationsFor returns health guidance for an AQI value.
func RecommendationsFor(aqi int) *HealthRecommendations {
	switch {
	case aqi <= 50:
		return &HealthRecommendations{
			General:         "La qualité de l'air est considérée comme satisfaisante",
			SensitiveGroups: "Pas de risque pour la santé",
			OutdoorActivity: "Activités extérieures normales",
		}
	case aqi <= 100:
		return &HealthRecommendations{
			General:         "La qualité de l'air est acceptable",
			SensitiveGroups: "Les personnes très sensibles peuvent ressentir des symptômes",
			OutdoorActivity: "Activités extérieures normales",
		}
	case aqi <= 150:
		return &HealthRecommendations{
			General:         "Les personnes sensibles peuvent ressentir des effets sur la santé",
			SensitiveGroups: "Réduire les activités extérieures prolongées",
			OutdoorActivity: "Tout le monde devrait réduire les efforts prolongés en extérieur",
		}
	case aqi <= 200:
		return &HealthRecommendations{
			General:         "Tout le monde peut commencer à ressentir des effets sur la santé",
			SensitiveGroups: "Éviter les activités extérieures prolongées",
			OutdoorActivity: "Tout le monde devrait limiter les efforts en extérieur",
		}
	case aqi <= 300:
		return &HealthRecommendations{
			General:         "Avertissements sanitaires, tout le monde peut ressentir des effets plus graves",
			SensitiveGroups: "Éviter toute activité extérieure",
			OutdoorActivity: "Tout le monde devrait éviter les efforts en extérieur",
		}
	default:
		return &HealthRecommendations{
			General:         "Alerte sanitaire : tout le monde peut ressentir des effets sanitaires graves",
			SensitiveGroups: "Rester à l'intérieur et maintenir un niveau d'activité faible",
			OutdoorActivity: "Tout le monde devrait éviter toute activité en extérieur",
		}
	}
}
