package transit

import (
	"testing"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func TestParseVehiclePositions(t *testing.T) {
	msg := &gtfs.FeedMessage{
		Entity: []*gtfs.FeedEntity{
			{
				Id: proto.String("entity-1"),
				Vehicle: &gtfs.VehiclePosition{
					Trip: &gtfs.TripDescriptor{
						TripId:  proto.String("trip-1"),
						RouteId: proto.String("A"),
					},
					Vehicle: &gtfs.VehicleDescriptor{Id: proto.String("bus-42")},
					Position: &gtfs.Position{
						Latitude:  proto.Float32(48.3904),
						Longitude: proto.Float32(-4.4861),
						Bearing:   proto.Float32(90),
					},
					Timestamp: proto.Uint64(1717243200),
				},
			},
			// No position: skipped.
			{Id: proto.String("entity-2"), Vehicle: &gtfs.VehiclePosition{}},
			// Not a vehicle entity: skipped.
			{Id: proto.String("entity-3")},
		},
	}

	got := ParseVehiclePositions(msg)
	require.Len(t, got, 1)
	assert.Equal(t, "bus-42", got[0].VehicleID)
	assert.Equal(t, "trip-1", got[0].TripID)
	assert.Equal(t, "A", got[0].RouteID)
	assert.InDelta(t, 48.3904, got[0].Latitude, 0.0001)
	assert.Equal(t, "2024-06-01T12:00:00Z", got[0].Timestamp)
}

func TestParseTripUpdates(t *testing.T) {
	msg := &gtfs.FeedMessage{
		Entity: []*gtfs.FeedEntity{
			{
				Id: proto.String("tu-1"),
				TripUpdate: &gtfs.TripUpdate{
					Trip: &gtfs.TripDescriptor{
						TripId:  proto.String("trip-9"),
						RouteId: proto.String("B"),
					},
					StopTimeUpdate: []*gtfs.TripUpdate_StopTimeUpdate{
						{
							StopId:       proto.String("stop-1"),
							StopSequence: proto.Uint32(3),
							Arrival:      &gtfs.TripUpdate_StopTimeEvent{Delay: proto.Int32(120)},
							Departure:    &gtfs.TripUpdate_StopTimeEvent{Delay: proto.Int32(90)},
						},
					},
				},
			},
		},
	}

	got := ParseTripUpdates(msg)
	require.Len(t, got, 1)
	assert.Equal(t, "trip-9", got[0].TripID)
	require.Len(t, got[0].StopTimeUpdates, 1)
	assert.Equal(t, "stop-1", got[0].StopTimeUpdates[0].StopID)
	assert.Equal(t, int32(120), got[0].StopTimeUpdates[0].ArrivalDelay)
	assert.Equal(t, int32(90), got[0].StopTimeUpdates[0].DepartureDelay)
}

func TestParseServiceAlerts(t *testing.T) {
	msg := &gtfs.FeedMessage{
		Entity: []*gtfs.FeedEntity{
			{
				Id: proto.String("alert-1"),
				Alert: &gtfs.Alert{
					Cause:  gtfs.Alert_MAINTENANCE.Enum(),
					Effect: gtfs.Alert_DETOUR.Enum(),
					HeaderText: &gtfs.TranslatedString{
						Translation: []*gtfs.TranslatedString_Translation{
							{Text: proto.String("Detour"), Language: proto.String("en")},
							{Text: proto.String("Déviation"), Language: proto.String("fr")},
						},
					},
					InformedEntity: []*gtfs.EntitySelector{
						{RouteId: proto.String("A")},
						{StopId: proto.String("stop-7")},
					},
				},
			},
		},
	}

	got := ParseServiceAlerts(msg)
	require.Len(t, got, 1)
	assert.Equal(t, "MAINTENANCE", got[0].Cause)
	assert.Equal(t, "DETOUR", got[0].Effect)
	assert.Equal(t, "Déviation", got[0].Header)
	assert.Equal(t, []string{"A"}, got[0].RouteIDs)
	assert.Equal(t, []string{"stop-7"}, got[0].StopIDs)
}

func TestParseEmptyFeed(t *testing.T) {
	msg := &gtfs.FeedMessage{}
	assert.Empty(t, ParseVehiclePositions(msg))
	assert.Empty(t, ParseTripUpdates(msg))
	assert.Empty(t, ParseServiceAlerts(msg))
}
