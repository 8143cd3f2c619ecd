package gtfsbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/gtfsfeed"
	"github.com/transitlab/citysim/internal/model"
)

func twoStopFeed() *gtfsfeed.Feed {
	return &gtfsfeed.Feed{
		Stops: []gtfsfeed.StopRecord{
			{ID: "A", Name: "A", Lat: 0, Lon: 0},
			{ID: "B", Name: "B", Lat: 0, Lon: 0.01},
		},
		Routes: []gtfsfeed.RouteRecord{{ID: "r1", Type: int(model.RouteTypeBus)}},
		Trips:  []gtfsfeed.TripRecord{{ID: "t1", RouteID: "r1", ServiceID: "weekday"}},
		StopTimes: []gtfsfeed.StopTimeRecord{
			{TripID: "t1", StopID: "A", StopSequence: 0, ArrivalTime: "08:00:00", DepartureTime: "08:00:00"},
			{TripID: "t1", StopID: "B", StopSequence: 1, ArrivalTime: "08:10:00", DepartureTime: "08:10:00"},
		},
		Calendar: []gtfsfeed.CalendarRecord{
			{ServiceID: "weekday", Monday: 1, Tuesday: 1, Wednesday: 1, Thursday: 1, Friday: 1, StartDate: "20260101", EndDate: "20261231"},
		},
	}
}

func TestBuildSingleTripSingleConnection(t *testing.T) {
	cfg := config.Default()
	cs, err := Build(twoStopFeed(), cfg, "20260727") // a Monday
	require.NoError(t, err)

	require.Len(t, cs.Stops, 2)
	require.Len(t, cs.Trips, 1)
	require.Len(t, cs.Connections, 1)

	c := cs.Connections[0]
	assert.Equal(t, 8*3600, c.DepartureTime)
	assert.Equal(t, 8*3600+600, c.ArrivalTime)
	assert.Equal(t, model.StopID(0), c.DepartureStop)
	assert.Equal(t, model.StopID(1), c.ArrivalStop)
}

func TestBuildSkipsInactiveService(t *testing.T) {
	cfg := config.Default()
	// 2026-07-27 is a Monday; request a Saturday instead (no weekend service).
	cs, err := Build(twoStopFeed(), cfg, "20260801")
	require.NoError(t, err)
	assert.Empty(t, cs.Connections)
}

func TestBuildFootpathsWithinDelta(t *testing.T) {
	cfg := config.Default()
	cfg.FootpathDeltaMax = 100000
	cs, err := Build(twoStopFeed(), cfg, "20260727")
	require.NoError(t, err)

	// A and B are ~1.1km apart, well within a generous delta max.
	require.NotEmpty(t, cs.FootpathsFrom(0))
	assert.Equal(t, model.StopID(1), cs.FootpathsFrom(0)[0].ArrivalStop)
}
