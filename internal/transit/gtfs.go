// Package transit flattens GTFS-RT feed messages into the JSON shapes
// served to clients.
package transit

import (
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
)

type VehiclePosition struct {
	VehicleID string  `json:"vehicle_id"`
	TripID    string  `json:"trip_id,omitempty"`
	RouteID   string  `json:"route_id,omitempty"`
	Latitude  float32 `json:"latitude"`
	Longitude float32 `json:"longitude"`
	Bearing   float32 `json:"bearing,omitempty"`
	Speed     float32 `json:"speed,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
}

type StopTimeUpdate struct {
	StopID         string `json:"stop_id,omitempty"`
	StopSequence   uint32 `json:"stop_sequence,omitempty"`
	ArrivalDelay   int32  `json:"arrival_delay,omitempty"`
	ArrivalTime    string `json:"arrival_time,omitempty"`
	DepartureDelay int32  `json:"departure_delay,omitempty"`
	DepartureTime  string `json:"departure_time,omitempty"`
}

type TripUpdate struct {
	TripID          string           `json:"trip_id"`
	RouteID         string           `json:"route_id,omitempty"`
	StartDate       string           `json:"start_date,omitempty"`
	StopTimeUpdates []StopTimeUpdate `json:"stop_time_updates"`
}

type Alert struct {
	ID          string   `json:"id"`
	Cause       string   `json:"cause"`
	Effect      string   `json:"effect"`
	Header      string   `json:"header,omitempty"`
	Description string   `json:"description,omitempty"`
	RouteIDs    []string `json:"route_ids,omitempty"`
	StopIDs     []string `json:"stop_ids,omitempty"`
}

// ParseVehiclePositions extracts vehicle entities, skipping entities
// without a position.
func ParseVehiclePositions(msg *gtfs.FeedMessage) []VehiclePosition {
	out := make([]VehiclePosition, 0, len(msg.GetEntity()))
	for _, entity := range msg.GetEntity() {
		v := entity.GetVehicle()
		if v == nil || v.GetPosition() == nil {
			continue
		}

		vp := VehiclePosition{
			VehicleID: entity.GetId(),
			TripID:    v.GetTrip().GetTripId(),
			RouteID:   v.GetTrip().GetRouteId(),
			Latitude:  v.GetPosition().GetLatitude(),
			Longitude: v.GetPosition().GetLongitude(),
			Bearing:   v.GetPosition().GetBearing(),
			Speed:     v.GetPosition().GetSpeed(),
		}
		if id := v.GetVehicle().GetId(); id != "" {
			vp.VehicleID = id
		}
		if ts := v.GetTimestamp(); ts != 0 {
			vp.Timestamp = formatUnix(int64(ts))
		}
		out = append(out, vp)
	}
	return out
}

// ParseTripUpdates extracts trip update entities with their per-stop
// arrival and departure estimates.
func ParseTripUpdates(msg *gtfs.FeedMessage) []TripUpdate {
	out := make([]TripUpdate, 0, len(msg.GetEntity()))
	for _, entity := range msg.GetEntity() {
		tu := entity.GetTripUpdate()
		if tu == nil {
			continue
		}

		update := TripUpdate{
			TripID:          tu.GetTrip().GetTripId(),
			RouteID:         tu.GetTrip().GetRouteId(),
			StartDate:       tu.GetTrip().GetStartDate(),
			StopTimeUpdates: make([]StopTimeUpdate, 0, len(tu.GetStopTimeUpdate())),
		}
		for _, stu := range tu.GetStopTimeUpdate() {
			s := StopTimeUpdate{
				StopID:       stu.GetStopId(),
				StopSequence: stu.GetStopSequence(),
			}
			if arr := stu.GetArrival(); arr != nil {
				s.ArrivalDelay = arr.GetDelay()
				if t := arr.GetTime(); t != 0 {
					s.ArrivalTime = formatUnix(t)
				}
			}
			if dep := stu.GetDeparture(); dep != nil {
				s.DepartureDelay = dep.GetDelay()
				if t := dep.GetTime(); t != 0 {
					s.DepartureTime = formatUnix(t)
				}
			}
			update.StopTimeUpdates = append(update.StopTimeUpdates, s)
		}
		out = append(out, update)
	}
	return out
}

// ParseServiceAlerts extracts alert entities with their cause, effect and
// informed routes and stops.
func ParseServiceAlerts(msg *gtfs.FeedMessage) []Alert {
	out := make([]Alert, 0, len(msg.GetEntity()))
	for _, entity := range msg.GetEntity() {
		a := entity.GetAlert()
		if a == nil {
			continue
		}

		alert := Alert{
			ID:          entity.GetId(),
			Cause:       a.GetCause().String(),
			Effect:      a.GetEffect().String(),
			Header:      translated(a.GetHeaderText()),
			Description: translated(a.GetDescriptionText()),
		}
		for _, ie := range a.GetInformedEntity() {
			if rid := ie.GetRouteId(); rid != "" {
				alert.RouteIDs = append(alert.RouteIDs, rid)
			}
			if sid := ie.GetStopId(); sid != "" {
				alert.StopIDs = append(alert.StopIDs, sid)
			}
		}
		out = append(out, alert)
	}
	return out
}

// translated picks the first translation, preferring French.
func translated(ts *gtfs.TranslatedString) string {
	translations := ts.GetTranslation()
	if len(translations) == 0 {
		return ""
	}
	for _, tr := range translations {
		if tr.GetLanguage() == "fr" {
			return tr.GetText()
		}
	}
	return translations[0].GetText()
}

func formatUnix(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
