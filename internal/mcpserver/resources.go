package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Nijal-AI/brest-mcp-server/internal/feed"
	"github.com/Nijal-AI/brest-mcp-server/internal/services"
)

// Resources mirror the tools for MCP clients that browse instead of call.
// Resource reads skip token verification; only tool calls check the
// token argument.
func (s *Server) registerResources() {
	s.addResource("brest://parkings", "Brest car parks",
		func(ctx context.Context) (*services.Payload, error) { return s.cityData.Parkings(ctx) })
	s.addResource("brest://tides", "Brest tide predictions",
		func(ctx context.Context) (*services.Payload, error) { return s.cityData.NextTides(ctx, 8) })
	s.addResource("brest://tides/current", "Current tide status",
		func(ctx context.Context) (*services.Payload, error) { return s.cityData.TideStatus(ctx) })
	s.addResource("brest://air-quality", "Brest air quality",
		func(ctx context.Context) (*services.Payload, error) { return s.cityData.AirQuality(ctx) })
	s.addResource("brest://bike-parkings", "Brest bike stands",
		func(ctx context.Context) (*services.Payload, error) { return s.cityData.BikeParkings(ctx) })
	s.addResource("brest://cycling-routes", "Brest cycling infrastructure",
		func(ctx context.Context) (*services.Payload, error) { return s.cityData.CyclingRoutes(ctx) })
	s.addResource("brest://charging-stations", "EV charging stations around Brest",
		func(ctx context.Context) (*services.Payload, error) { return s.cityData.ChargingStations(ctx) })
	s.addResource("brest://events", "Upcoming events in Brest",
		func(ctx context.Context) (*services.Payload, error) { return s.cityData.Events(ctx) })
	s.addResource("brest://weather", "Brest weather forecast",
		func(ctx context.Context) (*services.Payload, error) { return s.cityData.WeatherForecast(ctx) })
}

func (s *Server) addResource(uri, description string, run func(ctx context.Context) (*services.Payload, error)) {
	resource := mcp.NewResource(uri, description,
		mcp.WithResourceDescription(description),
		mcp.WithMIMEType("application/json"),
	)
	s.mcp.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		content := map[string]any{}
		payload, err := run(ctx)
		switch {
		case errors.Is(err, feed.ErrUpstreamUnavailable):
			content["data"] = []any{}
			content["lastUpdate"] = nil
		case err != nil:
			return nil, err
		default:
			content["data"] = payload.Data
			content["lastUpdate"] = payload.LastUpdate.UTC().Format(time.RFC3339)
		}
		body, err := json.Marshal(content)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(body),
			},
		}, nil
	})
}
