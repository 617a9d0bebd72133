// Package mcpserver exposes the city data over the Model Context Protocol.
// Every tool takes the OAuth access token as an argument and is refused
// without a valid one.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Nijal-AI/brest-mcp-server/internal/feed"
	"github.com/Nijal-AI/brest-mcp-server/internal/opendata"
	"github.com/Nijal-AI/brest-mcp-server/internal/services"
	"github.com/Nijal-AI/brest-mcp-server/internal/token"
	"github.com/Nijal-AI/brest-mcp-server/internal/version"
)

type Server struct {
	mcp      *server.MCPServer
	cityData *services.CityData
	verifier token.Verifier
}

// New builds the MCP server and registers all tools and resources.
func New(cityData *services.CityData, verifier token.Verifier) *Server {
	s := &Server{
		mcp: server.NewMCPServer(
			"BrestCityServer",
			version.Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
		cityData: cityData,
		verifier: verifier,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// StreamableHTTPServer returns the streamable HTTP transport for mounting
// under the main router.
func (s *Server) StreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.mcp)
}

// SSEServer returns the legacy SSE transport.
func (s *Server) SSEServer(baseURL string) *server.SSEServer {
	return server.NewSSEServer(s.mcp, server.WithBaseURL(baseURL))
}

// query is a city data lookup bound to a tool.
type query func(ctx context.Context, request mcp.CallToolRequest) (*services.Payload, error)

// withAuth verifies the token argument before running the query, and
// wraps the answer in the {status, data, lastUpdate} envelope.
func (s *Server) withAuth(name string, run query) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		bearer := request.GetString("token", "")
		principal, err := s.verifier.Verify(ctx, bearer)
		if err != nil {
			return errorResult("Invalid or missing token"), nil
		}
		log.Printf("[MCP] user %s called %s", principal.UserID, name)

		payload, err := run(ctx, request)
		if err != nil {
			// An unreachable upstream with nothing cached degrades to an
			// empty answer rather than failing the tool call.
			if errors.Is(err, feed.ErrUpstreamUnavailable) {
				return degradedResult(), nil
			}
			return errorResult(err.Error()), nil
		}
		return payloadResult(payload), nil
	}
}

func degradedResult() *mcp.CallToolResult {
	body, _ := json.Marshal(map[string]any{
		"status":     "degraded",
		"data":       []any{},
		"lastUpdate": nil,
	})
	return mcp.NewToolResultText(string(body))
}

func errorResult(message string) *mcp.CallToolResult {
	body, _ := json.Marshal(map[string]string{
		"status":  "error",
		"message": message,
	})
	return mcp.NewToolResultText(string(body))
}

func payloadResult(p *services.Payload) *mcp.CallToolResult {
	status := "success"
	if p.Stale {
		status = "degraded"
	}
	body, err := json.Marshal(map[string]any{
		"status":     status,
		"data":       p.Data,
		"lastUpdate": p.LastUpdate.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return errorResult("failed to encode payload")
	}
	return mcp.NewToolResultText(string(body))
}

func tokenArg() mcp.ToolOption {
	return mcp.WithString("token",
		mcp.Required(),
		mcp.Description("OAuth access token obtained from /oauth/token"),
	)
}

func (s *Server) registerTools() {
	s.addSimpleTool("get_vehicles",
		"Live positions of the network's vehicles (GTFS-RT)",
		func(ctx context.Context, _ mcp.CallToolRequest) (*services.Payload, error) {
			return s.cityData.VehiclePositions(ctx)
		})
	s.addSimpleTool("get_trip_updates",
		"Live trip updates with per-stop delays (GTFS-RT)",
		func(ctx context.Context, _ mcp.CallToolRequest) (*services.Payload, error) {
			return s.cityData.TripUpdates(ctx)
		})
	s.addSimpleTool("get_alerts",
		"Current service alerts for the network (GTFS-RT)",
		func(ctx context.Context, _ mcp.CallToolRequest) (*services.Payload, error) {
			return s.cityData.ServiceAlerts(ctx)
		})
	s.addSimpleTool("get_parkings",
		"Car parks of Brest métropole with realtime availability",
		func(ctx context.Context, _ mcp.CallToolRequest) (*services.Payload, error) {
			return s.cityData.Parkings(ctx)
		})
	s.addSimpleTool("get_tides",
		"Next high and low tides for Brest harbor",
		func(ctx context.Context, _ mcp.CallToolRequest) (*services.Payload, error) {
			return s.cityData.NextTides(ctx, 8)
		})
	s.addSimpleTool("get_tide_status",
		"Whether the tide is currently rising or falling at Brest",
		func(ctx context.Context, _ mcp.CallToolRequest) (*services.Payload, error) {
			return s.cityData.TideStatus(ctx)
		})
	s.addSimpleTool("get_air_quality",
		"Current air quality index for Brest with health recommendations",
		func(ctx context.Context, _ mcp.CallToolRequest) (*services.Payload, error) {
			return s.cityData.AirQuality(ctx)
		})
	s.addSimpleTool("get_bike_parkings",
		"Bike stands of Brest métropole",
		func(ctx context.Context, _ mcp.CallToolRequest) (*services.Payload, error) {
			return s.cityData.BikeParkings(ctx)
		})
	s.addSimpleTool("get_cycling_routes",
		"Cycling infrastructure of Brest métropole",
		func(ctx context.Context, _ mcp.CallToolRequest) (*services.Payload, error) {
			return s.cityData.CyclingRoutes(ctx)
		})
	s.addSimpleTool("get_charging_stations",
		"EV charging stations around Brest",
		func(ctx context.Context, _ mcp.CallToolRequest) (*services.Payload, error) {
			return s.cityData.ChargingStations(ctx)
		})
	s.addSimpleTool("get_events",
		"Upcoming events in Brest from OpenAgenda",
		func(ctx context.Context, _ mcp.CallToolRequest) (*services.Payload, error) {
			return s.cityData.Events(ctx)
		})
	s.addSimpleTool("get_weather_forecast",
		"Weather forecast for Brest (Infoclimat GFS)",
		func(ctx context.Context, _ mcp.CallToolRequest) (*services.Payload, error) {
			return s.cityData.WeatherForecast(ctx)
		})

	s.addTool(mcp.NewTool("get_tides_for_date",
		mcp.WithDescription("Tide predictions for a given date"),
		tokenArg(),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date in YYYY-MM-DD format"),
		),
	), "get_tides_for_date", func(ctx context.Context, request mcp.CallToolRequest) (*services.Payload, error) {
		date, err := request.RequireString("date")
		if err != nil {
			return nil, err
		}
		return s.cityData.TidesForDate(ctx, date)
	})

	s.addNearestTool("find_nearest_parkings",
		"Car parks closest to a point", 1.0,
		s.cityData.NearestParkings)
	s.addNearestTool("find_nearest_bike_parkings",
		"Bike stands closest to a point", 1.0,
		s.cityData.NearestBikeParkings)
	s.addNearestTool("find_nearest_charging_stations",
		"EV charging stations closest to a point", 5.0,
		s.cityData.NearestChargingStations)
}

func (s *Server) addSimpleTool(name, description string, run query) {
	s.addTool(mcp.NewTool(name,
		mcp.WithDescription(description),
		tokenArg(),
	), name, run)
}

func (s *Server) addNearestTool(name, description string, defaultMaxKm float64, find func(ctx context.Context, lat, lon, maxDistanceKm float64, limit int) (*services.Payload, error)) {
	s.addTool(mcp.NewTool(name,
		mcp.WithDescription(description),
		tokenArg(),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("Latitude of the search point"),
		),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("Longitude of the search point"),
		),
		mcp.WithNumber("max_distance",
			mcp.Description("Search radius in kilometers"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results"),
		),
	), name, func(ctx context.Context, request mcp.CallToolRequest) (*services.Payload, error) {
		lat, err := request.RequireFloat("latitude")
		if err != nil {
			return nil, err
		}
		lon, err := request.RequireFloat("longitude")
		if err != nil {
			return nil, err
		}
		maxKm := request.GetFloat("max_distance", defaultMaxKm)
		limit := request.GetInt("limit", opendata.DefaultNearestLimit)
		return find(ctx, lat, lon, maxKm, limit)
	})
}

func (s *Server) addTool(tool mcp.Tool, name string, run query) {
	s.mcp.AddTool(tool, s.withAuth(name, run))
}
