package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Bearer verification mode constants
const (
	VerifierModeOpaque = "opaque"
	VerifierModeJWT    = "jwt"
)

// Supported transit networks
const (
	NetworkBibus = "bibus"
	NetworkStar  = "star"
	NetworkTub   = "tub"
)

type Config struct {
	// Server settings
	ServerAddr string
	BaseURL    string
	GinMode    string

	// Session settings
	SessionSecret string
	SessionMaxAge int // seconds

	// OAuth settings
	AuthCodeExpiration time.Duration
	TokenExpiration    time.Duration

	// Bearer verification
	VerifierMode string // "opaque" or "jwt"
	JWTSecret    string

	// Provisioned OAuth client (single-tenant by design)
	ClientID      string
	ClientSecret  string
	ClientName    string
	RedirectURIs  []string
	AllowedScopes []string

	// Upstream feeds
	Network         string // "bibus", "star" or "tub"
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	FetchRetries    int

	// Feed URL overrides; empty entries fall back to the network defaults
	VehiclePositionsURL string
	TripUpdatesURL      string
	ServiceAlertsURL    string
	GTFSStaticURL       string
	ParkingsURL         string
	ParkingsRealtimeURL string
	TidesURL            string
	TidesAPIKey         string
	TidesPort           string
	AirQualityURL       string
	AirQualityAPIKey    string
	BikeParkingsURL     string
	CyclingRoutesURL    string
	ChargingStationsURL string
	OpenAgendaURL       string
	WeatherURL          string

	// Metrics
	MetricsEnabled bool
}

// Default GTFS-RT endpoints for the supported Breton networks.
var networkURLs = map[string]map[string]string{
	NetworkBibus: {
		"vehicle_positions": "https://proxy.transport.data.gouv.fr/resource/bibus-brest-gtfs-rt-vehicle-position",
		"trip_updates":      "https://proxy.transport.data.gouv.fr/resource/bibus-brest-gtfs-rt-trip-update",
		"service_alerts":    "https://proxy.transport.data.gouv.fr/resource/bibus-brest-gtfs-rt-alerts",
		"gtfs_static":       "https://s3.eu-west-1.amazonaws.com/files.orchestra.ratpdev.com/networks/bibus/exports/medias.zip",
	},
	NetworkStar: {
		"vehicle_positions": "https://proxy.transport.data.gouv.fr/resource/star-rennes-gtfs-rt-vehicle-position",
		"trip_updates":      "https://proxy.transport.data.gouv.fr/resource/star-rennes-gtfs-rt-trip-update",
		"service_alerts":    "https://proxy.transport.data.gouv.fr/resource/star-rennes-gtfs-rt-alerts",
	},
	NetworkTub: {
		"vehicle_positions": "https://proxy.transport.data.gouv.fr/resource/tub-saint-brieuc-gtfs-rt-vehicle-position",
		"trip_updates":      "https://proxy.transport.data.gouv.fr/resource/tub-saint-brieuc-gtfs-rt-trip-update",
		"service_alerts":    "https://proxy.transport.data.gouv.fr/resource/tub-saint-brieuc-gtfs-rt-alerts",
	},
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	network := getEnv("NETWORK", NetworkBibus)

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":3001"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:3001"),
		GinMode:    getEnv("GIN_MODE", "release"),

		SessionSecret: getEnv("SESSION_SECRET", "session-secret-change-in-production"),
		SessionMaxAge: getEnvInt("SESSION_MAX_AGE", 86400),

		AuthCodeExpiration: getEnvDuration("AUTH_CODE_EXPIRATION", 10*time.Minute),
		TokenExpiration:    getEnvDuration("TOKEN_EXPIRATION", time.Hour),

		VerifierMode: getEnv("VERIFIER_MODE", VerifierModeOpaque),
		JWTSecret:    getEnv("JWT_SECRET_KEY", "secret-key-for-dev-only-please-change-in-production"),

		ClientID:      getEnv("OAUTH_CLIENT_ID", "demo-client"),
		ClientSecret:  getEnv("OAUTH_CLIENT_SECRET", "demo-secret"),
		ClientName:    getEnv("OAUTH_CLIENT_NAME", "Demo Client"),
		RedirectURIs:  getEnvSlice("OAUTH_REDIRECT_URIS", []string{"http://localhost:8000/callback"}),
		AllowedScopes: getEnvSlice("OAUTH_ALLOWED_SCOPES", []string{"profile", "email"}),

		Network:         network,
		RefreshInterval: getEnvDuration("GTFS_REFRESH_INTERVAL", 30*time.Second),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		FetchRetries:    getEnvInt("FETCH_RETRIES", 2),

		VehiclePositionsURL: getEnv("GTFS_VEHICLE_POSITIONS_URL", ""),
		TripUpdatesURL:      getEnv("GTFS_TRIP_UPDATES_URL", ""),
		ServiceAlertsURL:    getEnv("GTFS_SERVICE_ALERTS_URL", ""),
		GTFSStaticURL:       getEnv("GTFS_STATIC_URL", ""),
		ParkingsURL:         getEnv("BREST_PARKINGS_URL", defaultParkingsURL),
		ParkingsRealtimeURL: getEnv("BREST_PARKINGS_REALTIME_URL", defaultParkingsRealtimeURL),
		TidesURL:            getEnv("SHOM_TIDES_API_URL", defaultTidesURL),
		TidesAPIKey:         getEnv("SHOM_TIDES_API_KEY", ""),
		TidesPort:           getEnv("SHOM_PORT_ID", "BREST"),
		AirQualityURL:       getEnv("AIR_QUALITY_API_URL", defaultAirQualityURL),
		AirQualityAPIKey:    getEnv("AIR_QUALITY_API_KEY", ""),
		BikeParkingsURL:     getEnv("BIKE_PARKING_URL", defaultBikeParkingsURL),
		CyclingRoutesURL:    getEnv("CYCLING_INFRASTRUCTURE_URL", defaultCyclingRoutesURL),
		ChargingStationsURL: getEnv("CHARGING_STATIONS_URL", defaultChargingStationsURL),
		OpenAgendaURL:       getEnv("OPEN_AGENDA_URL", defaultOpenAgendaURL),
		WeatherURL:          getEnv("WEATHER_INFOCLIMAT_URL", defaultWeatherURL),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}
}

const (
	defaultParkingsURL         = "https://applications002.brest-metropole.fr/VIPDU72/GPB/wms?service=WFS&version=1.1.0&request=GetFeature&typename=GPB_WFS_PARKINGS&outputFormat=application/json"
	defaultParkingsRealtimeURL = "https://applications002.brest-metropole.fr/VIPDU72/GPB/wms?service=WFS&version=1.1.0&request=GetFeature&typename=GPB_WFS_PARKINGS_DISPO&outputFormat=application/json"
	defaultTidesURL            = "https://services.data.shom.fr/b2q8lrcdl4s04cbabsj4nhcb/hdm/spm/water-level"
	defaultAirQualityURL       = "https://api.waqi.info/feed/brest/"
	defaultBikeParkingsURL     = "https://applications002.brest-metropole.fr/VIPDU72/GPB/wms?service=WFS&version=1.1.0&request=GetFeature&typename=GPB_WFS_STATIONNEMENT_VELO&outputFormat=application/json"
	defaultCyclingRoutesURL    = "https://applications002.brest-metropole.fr/VIPDU72/GPB/wms?service=WFS&version=1.1.0&request=GetFeature&typename=GPB_WFS_AMENAGEMENT_CYCLABLE&outputFormat=application/json"
	defaultChargingStationsURL = "https://opendata.reseaux-energies.fr/api/records/1.0/search/?dataset=bornes-irve&q=brest&rows=100"
	defaultOpenAgendaURL       = "https://api.openagenda.com/v2/events?search=brest&limit=10"
	defaultWeatherURL          = "https://www.infoclimat.fr/public-api/gfs/json?_ll=48.4475,-4.4181"
)

// NetworkURL returns the configured URL for a GTFS feed, falling back to the
// default endpoint of the selected network.
func (c *Config) NetworkURL(feed string) string {
	switch feed {
	case "vehicle_positions":
		if c.VehiclePositionsURL != "" {
			return c.VehiclePositionsURL
		}
	case "trip_updates":
		if c.TripUpdatesURL != "" {
			return c.TripUpdatesURL
		}
	case "service_alerts":
		if c.ServiceAlertsURL != "" {
			return c.ServiceAlertsURL
		}
	case "gtfs_static":
		if c.GTFSStaticURL != "" {
			return c.GTFSStaticURL
		}
	}
	return networkURLs[c.Network][feed]
}

// Validate checks the configuration for mistakes that would only surface at
// request time.
func (c *Config) Validate() error {
	if c.Network != NetworkBibus && c.Network != NetworkStar && c.Network != NetworkTub {
		return fmt.Errorf("unknown network %q (want bibus, star or tub)", c.Network)
	}
	if c.VerifierMode != VerifierModeOpaque && c.VerifierMode != VerifierModeJWT {
		return fmt.Errorf("unknown verifier mode %q (want opaque or jwt)", c.VerifierMode)
	}
	if c.VerifierMode == VerifierModeJWT && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required when VERIFIER_MODE=jwt")
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET must be set")
	}
	if len(c.RedirectURIs) == 0 {
		return fmt.Errorf("OAUTH_REDIRECT_URIS must list at least one redirect URI")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("GTFS_REFRESH_INTERVAL must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var parts []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
