package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"

	"github.com/Nijal-AI/brest-mcp-server/internal/feed"
	"github.com/Nijal-AI/brest-mcp-server/internal/opendata"
	"github.com/Nijal-AI/brest-mcp-server/internal/transit"
)

var ErrBadPayload = errors.New("unexpected upstream payload")

// CityData answers the domain queries over the feed cache. Every method
// returns the decoded payload plus the time the underlying feed was last
// fetched successfully, and whether it is being served stale.
type CityData struct {
	cache *feed.Cache
}

func NewCityData(cache *feed.Cache) *CityData {
	return &CityData{cache: cache}
}

// Payload is a decoded feed answer.
type Payload struct {
	Data       any
	LastUpdate time.Time
	Stale      bool
}

func (s *CityData) gtfsFeed(ctx context.Context, key string) (*gtfs.FeedMessage, *feed.Result, error) {
	res, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	msg, ok := res.Data.(*gtfs.FeedMessage)
	if !ok {
		return nil, nil, ErrBadPayload
	}
	return msg, res, nil
}

func (s *CityData) jsonFeed(ctx context.Context, key string) (json.RawMessage, *feed.Result, error) {
	res, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	raw, ok := res.Data.(json.RawMessage)
	if !ok {
		return nil, nil, ErrBadPayload
	}
	return raw, res, nil
}

func payload(data any, res *feed.Result) *Payload {
	return &Payload{Data: data, LastUpdate: res.FetchedAt, Stale: res.Stale}
}

// VehiclePositions returns the live vehicle positions of the configured
// network.
func (s *CityData) VehiclePositions(ctx context.Context) (*Payload, error) {
	msg, res, err := s.gtfsFeed(ctx, feed.KeyVehiclePositions)
	if err != nil {
		return nil, err
	}
	return payload(transit.ParseVehiclePositions(msg), res), nil
}

// TripUpdates returns the live trip updates.
func (s *CityData) TripUpdates(ctx context.Context) (*Payload, error) {
	msg, res, err := s.gtfsFeed(ctx, feed.KeyTripUpdates)
	if err != nil {
		return nil, err
	}
	return payload(transit.ParseTripUpdates(msg), res), nil
}

// ServiceAlerts returns the current service alerts.
func (s *CityData) ServiceAlerts(ctx context.Context) (*Payload, error) {
	msg, res, err := s.gtfsFeed(ctx, feed.KeyServiceAlerts)
	if err != nil {
		return nil, err
	}
	return payload(transit.ParseServiceAlerts(msg), res), nil
}

// parkings merges the static catalogue with realtime availability. A
// failing realtime layer degrades to the static records rather than
// failing the query.
func (s *CityData) parkings(ctx context.Context) ([]opendata.Parking, *feed.Result, error) {
	raw, res, err := s.jsonFeed(ctx, feed.KeyParkings)
	if err != nil {
		return nil, nil, err
	}
	parkings, err := opendata.ParseParkings(raw)
	if err != nil {
		return nil, nil, err
	}

	availability := map[string]*opendata.Availability{}
	if rawAvail, _, err := s.jsonFeed(ctx, feed.KeyParkingsRealtime); err == nil {
		if parsed, err := opendata.ParseParkingAvailability(rawAvail); err == nil {
			availability = parsed
		}
	}
	return opendata.MergeAvailability(parkings, availability), res, nil
}

// Parkings returns all car parks with availability when known.
func (s *CityData) Parkings(ctx context.Context) (*Payload, error) {
	parkings, res, err := s.parkings(ctx)
	if err != nil {
		return nil, err
	}
	return payload(parkings, res), nil
}

// Parking returns one car park by id.
func (s *CityData) Parking(ctx context.Context, id string) (*Payload, error) {
	parkings, res, err := s.parkings(ctx)
	if err != nil {
		return nil, err
	}
	return payload(opendata.ParkingByID(parkings, id), res), nil
}

// NearestParkings returns the car parks closest to a point.
func (s *CityData) NearestParkings(ctx context.Context, lat, lon, maxDistanceKm float64, limit int) (*Payload, error) {
	parkings, res, err := s.parkings(ctx)
	if err != nil {
		return nil, err
	}
	from := opendata.Coordinates{Latitude: lat, Longitude: lon}
	nearest := opendata.Nearest(parkings, func(p opendata.Parking) opendata.Coordinates {
		return p.Coordinates
	}, from, maxDistanceKm, limit)
	return payload(nearest, res), nil
}

func (s *CityData) tides(ctx context.Context) ([]opendata.TidePrediction, *feed.Result, error) {
	raw, res, err := s.jsonFeed(ctx, feed.KeyTides)
	if err != nil {
		return nil, nil, err
	}
	tides, err := opendata.ParseTides(raw)
	if err != nil {
		return nil, nil, err
	}
	return tides, res, nil
}

// NextTides returns the next high and low tides for Brest harbor.
func (s *CityData) NextTides(ctx context.Context, count int) (*Payload, error) {
	tides, res, err := s.tides(ctx)
	if err != nil {
		return nil, err
	}
	return payload(opendata.NextTides(tides, time.Now(), count), res), nil
}

// TideStatus reports whether the tide is currently rising or falling.
func (s *CityData) TideStatus(ctx context.Context) (*Payload, error) {
	tides, res, err := s.tides(ctx)
	if err != nil {
		return nil, err
	}
	return payload(opendata.CurrentTideStatus(tides, time.Now()), res), nil
}

// TidesForDate returns the predictions for a YYYY-MM-DD date.
func (s *CityData) TidesForDate(ctx context.Context, date string) (*Payload, error) {
	tides, res, err := s.tides(ctx)
	if err != nil {
		return nil, err
	}
	return payload(opendata.TidesForDate(tides, date), res), nil
}

// AirQuality returns the current air quality with health recommendations.
func (s *CityData) AirQuality(ctx context.Context) (*Payload, error) {
	raw, res, err := s.jsonFeed(ctx, feed.KeyAirQuality)
	if err != nil {
		return nil, err
	}
	aq, err := opendata.ParseAirQuality(raw)
	if err != nil {
		return nil, err
	}
	aq.Recommendations = opendata.RecommendationsFor(aq.AQI)
	return payload(aq, res), nil
}

func (s *CityData) bikeParkings(ctx context.Context) ([]opendata.BikeParking, *feed.Result, error) {
	raw, res, err := s.jsonFeed(ctx, feed.KeyBikeParkings)
	if err != nil {
		return nil, nil, err
	}
	parkings, err := opendata.ParseBikeParkings(raw)
	if err != nil {
		return nil, nil, err
	}
	return parkings, res, nil
}

// BikeParkings returns all bike stands.
func (s *CityData) BikeParkings(ctx context.Context) (*Payload, error) {
	parkings, res, err := s.bikeParkings(ctx)
	if err != nil {
		return nil, err
	}
	return payload(parkings, res), nil
}

// NearestBikeParkings returns the bike stands closest to a point.
func (s *CityData) NearestBikeParkings(ctx context.Context, lat, lon, maxDistanceKm float64, limit int) (*Payload, error) {
	parkings, res, err := s.bikeParkings(ctx)
	if err != nil {
		return nil, err
	}
	from := opendata.Coordinates{Latitude: lat, Longitude: lon}
	nearest := opendata.Nearest(parkings, func(p opendata.BikeParking) opendata.Coordinates {
		return p.Coordinates
	}, from, maxDistanceKm, limit)
	return payload(nearest, res), nil
}

// CyclingRoutes returns the cycling infrastructure.
func (s *CityData) CyclingRoutes(ctx context.Context) (*Payload, error) {
	raw, res, err := s.jsonFeed(ctx, feed.KeyCyclingRoutes)
	if err != nil {
		return nil, err
	}
	routes, err := opendata.ParseCyclingRoutes(raw)
	if err != nil {
		return nil, err
	}
	return payload(routes, res), nil
}

func (s *CityData) chargingStations(ctx context.Context) ([]opendata.ChargingStation, *feed.Result, error) {
	raw, res, err := s.jsonFeed(ctx, feed.KeyChargingStations)
	if err != nil {
		return nil, nil, err
	}
	stations, err := opendata.ParseChargingStations(raw)
	if err != nil {
		return nil, nil, err
	}
	return stations, res, nil
}

// ChargingStations returns the EV charging stations around Brest.
func (s *CityData) ChargingStations(ctx context.Context) (*Payload, error) {
	stations, res, err := s.chargingStations(ctx)
	if err != nil {
		return nil, err
	}
	return payload(stations, res), nil
}

// NearestChargingStations returns the charging stations closest to a point.
func (s *CityData) NearestChargingStations(ctx context.Context, lat, lon, maxDistanceKm float64, limit int) (*Payload, error) {
	stations, res, err := s.chargingStations(ctx)
	if err != nil {
		return nil, err
	}
	from := opendata.Coordinates{Latitude: lat, Longitude: lon}
	nearest := opendata.Nearest(stations, func(st opendata.ChargingStation) opendata.Coordinates {
		return st.Coordinates
	}, from, maxDistanceKm, limit)
	return payload(nearest, res), nil
}

// Events returns the upcoming OpenAgenda events.
func (s *CityData) Events(ctx context.Context) (*Payload, error) {
	raw, res, err := s.jsonFeed(ctx, feed.KeyOpenAgenda)
	if err != nil {
		return nil, err
	}
	events, err := opendata.ParseEvents(raw)
	if err != nil {
		return nil, err
	}
	return payload(events, res), nil
}

// WeatherForecast returns the Infoclimat GFS forecast steps.
func (s *CityData) WeatherForecast(ctx context.Context) (*Payload, error) {
	raw, res, err := s.jsonFeed(ctx, feed.KeyWeather)
	if err != nil {
		return nil, err
	}
	forecasts, err := opendata.ParseWeatherForecasts(raw)
	if err != nil {
		return nil, err
	}
	return payload(forecasts, res), nil
}
