package feed

import (
	"github.com/Nijal-AI/brest-mcp-server/internal/config"
)

// Feed catalogue keys.
const (
	KeyVehiclePositions = "vehicle_positions"
	KeyTripUpdates      = "trip_updates"
	KeyServiceAlerts    = "service_alerts"
	KeyGTFSStatic       = "gtfs_static"
	KeyParkings         = "parkings"
	KeyParkingsRealtime = "parkings_realtime"
	KeyTides            = "tides"
	KeyAirQuality       = "air_quality"
	KeyBikeParkings     = "bike_parkings"
	KeyCyclingRoutes    = "cycling_routes"
	KeyChargingStations = "charging_stations"
	KeyOpenAgenda       = "open_agenda"
	KeyWeather          = "weather_infoclimat"
)

// Registry is the immutable feed catalogue built from the configuration.
type Registry struct {
	feeds map[string]*Feed
}

// NewRegistry builds the catalogue for the configured network. Slow-moving
// datasets (GTFS static, cycling routes) refresh on longer intervals than
// the realtime GTFS feeds.
func NewRegistry(cfg *config.Config) *Registry {
	realtime := cfg.RefreshInterval
	fiveMin := 10 * realtime
	hourly := 120 * realtime

	feeds := []*Feed{
		{Key: KeyVehiclePositions, URL: cfg.NetworkURL(KeyVehiclePositions), Kind: KindGTFSRealtime, RefreshInterval: realtime},
		{Key: KeyTripUpdates, URL: cfg.NetworkURL(KeyTripUpdates), Kind: KindGTFSRealtime, RefreshInterval: realtime},
		{Key: KeyServiceAlerts, URL: cfg.NetworkURL(KeyServiceAlerts), Kind: KindGTFSRealtime, RefreshInterval: realtime},
		{Key: KeyGTFSStatic, URL: cfg.NetworkURL(KeyGTFSStatic), Kind: KindRaw, RefreshInterval: hourly},
		{Key: KeyParkings, URL: cfg.ParkingsURL, Kind: KindJSON, RefreshInterval: hourly},
		{Key: KeyParkingsRealtime, URL: cfg.ParkingsRealtimeURL, Kind: KindJSON, RefreshInterval: fiveMin},
		{Key: KeyTides, URL: cfg.TidesURL, Kind: KindJSON, RefreshInterval: fiveMin,
			Headers: apiKeyHeader("X-Api-Key", cfg.TidesAPIKey)},
		{Key: KeyAirQuality, URL: airQualityURL(cfg), Kind: KindJSON, RefreshInterval: fiveMin},
		{Key: KeyBikeParkings, URL: cfg.BikeParkingsURL, Kind: KindJSON, RefreshInterval: hourly},
		{Key: KeyCyclingRoutes, URL: cfg.CyclingRoutesURL, Kind: KindJSON, RefreshInterval: hourly},
		{Key: KeyChargingStations, URL: cfg.ChargingStationsURL, Kind: KindJSON, RefreshInterval: hourly},
		{Key: KeyOpenAgenda, URL: cfg.OpenAgendaURL, Kind: KindJSON, RefreshInterval: fiveMin},
		{Key: KeyWeather, URL: cfg.WeatherURL, Kind: KindJSON, RefreshInterval: fiveMin},
	}

	m := make(map[string]*Feed, len(feeds))
	for _, f := range feeds {
		if f.URL == "" {
			continue
		}
		m[f.Key] = f
	}
	return &Registry{feeds: m}
}

// Get returns the feed registered under key.
func (r *Registry) Get(key string) (*Feed, error) {
	f, ok := r.feeds[key]
	if !ok {
		return nil, ErrFeedNotFound
	}
	return f, nil
}

// Keys lists the registered feed keys.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.feeds))
	for k := range r.feeds {
		keys = append(keys, k)
	}
	return keys
}

func apiKeyHeader(name, value string) map[string]string {
	if value == "" {
		return nil
	}
	return map[string]string{name: value}
}

// WAQI expects its token as a query parameter.
func airQualityURL(cfg *config.Config) string {
	if cfg.AirQualityAPIKey == "" {
		return cfg.AirQualityURL
	}
	sep := "?"
	for _, c := range cfg.AirQualityURL {
		if c == '?' {
			sep = "&"
			break
		}
	}
	return cfg.AirQualityURL + sep + "token=" + cfg.AirQualityAPIKey
}
