package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nijal-AI/brest-mcp-server/internal/feed"
	"github.com/Nijal-AI/brest-mcp-server/internal/services"
)

// FeedHandler mirrors the cached city data over plain REST for clients
// that do not speak MCP.
type FeedHandler struct {
	cityData *services.CityData
	registry *feed.Registry
	cache    *feed.Cache
}

func NewFeedHandler(cd *services.CityData, registry *feed.Registry, cache *feed.Cache) *FeedHandler {
	return &FeedHandler{cityData: cd, registry: registry, cache: cache}
}

// Feed handles GET /api/feeds/:key
func (h *FeedHandler) Feed(c *gin.Context) {
	ctx := c.Request.Context()
	key := c.Param("key")

	var (
		payload *services.Payload
		err     error
	)
	switch key {
	case feed.KeyVehiclePositions:
		payload, err = h.cityData.VehiclePositions(ctx)
	case feed.KeyTripUpdates:
		payload, err = h.cityData.TripUpdates(ctx)
	case feed.KeyServiceAlerts:
		payload, err = h.cityData.ServiceAlerts(ctx)
	case feed.KeyParkings:
		payload, err = h.cityData.Parkings(ctx)
	case feed.KeyTides:
		payload, err = h.cityData.NextTides(ctx, 8)
	case feed.KeyAirQuality:
		payload, err = h.cityData.AirQuality(ctx)
	case feed.KeyBikeParkings:
		payload, err = h.cityData.BikeParkings(ctx)
	case feed.KeyCyclingRoutes:
		payload, err = h.cityData.CyclingRoutes(ctx)
	case feed.KeyChargingStations:
		payload, err = h.cityData.ChargingStations(ctx)
	case feed.KeyOpenAgenda:
		payload, err = h.cityData.Events(ctx)
	case feed.KeyWeather:
		payload, err = h.cityData.WeatherForecast(ctx)
	default:
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "unknown feed " + strconv.Quote(key),
		})
		return
	}

	if err != nil {
		// An unreachable upstream with nothing cached is still answered,
		// just degraded with an empty payload. Only a broken request fails.
		if errors.Is(err, feed.ErrUpstreamUnavailable) {
			c.JSON(http.StatusOK, gin.H{
				"status":     "degraded",
				"data":       []any{},
				"lastUpdate": nil,
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, feedBody(payload))
}

func feedBody(p *services.Payload) gin.H {
	status := "success"
	if p.Stale {
		status = "degraded"
	}
	return gin.H{
		"status":     status,
		"data":       p.Data,
		"lastUpdate": p.LastUpdate.UTC().Format(time.RFC3339),
	}
}

// Health handles GET /health, reporting per-feed cache state without
// touching any upstream.
func (h *FeedHandler) Health(c *gin.Context) {
	feeds := gin.H{}
	for _, key := range h.registry.Keys() {
		if res, ok := h.cache.Snapshot(key); ok {
			feeds[key] = gin.H{
				"cached":     true,
				"lastUpdate": res.FetchedAt.UTC().Format(time.RFC3339),
			}
		} else {
			feeds[key] = gin.H{"cached": false}
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"feeds":  feeds,
	})
}
