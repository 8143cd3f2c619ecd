package transit

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitlab/citysim/internal/events"
	"github.com/transitlab/citysim/internal/model"
)

func threeStopTrip() *model.Trip {
	return &model.Trip{
		ID: 1,
		Stops: []model.TripStop{
			{Stop: 0, ScheduledArrival: 100, ScheduledDeparture: 100, Sequence: 0},
			{Stop: 1, ScheduledArrival: 200, ScheduledDeparture: 210, Sequence: 1},
			{Stop: 2, ScheduledArrival: 300, ScheduledDeparture: 300, Sequence: 2},
		},
	}
}

func TestVehicleDriverStartsAtMinusOneAndIncrementsOnArrive(t *testing.T) {
	trip := threeStopTrip()
	d := NewVehicleDriver(trip, NewPickupTable(), zerolog.Nop())
	assert.Equal(t, -1, d.CurrentStopIndex())

	d.Arrive(100)
	assert.Equal(t, 0, d.CurrentStopIndex())
}

func TestVehicleDriverSchedulesNextArrivalFromSchedule(t *testing.T) {
	trip := threeStopTrip()
	d := NewVehicleDriver(trip, NewPickupTable(), zerolog.Nop())

	out := d.Arrive(100)
	require.Len(t, out, 1)
	// delta = next.ScheduledArrival - current.ScheduledDeparture = 200-100 = 100
	assert.Equal(t, 100, out[0].Delay)
}

func TestVehicleDriverTerminatesAtLastStop(t *testing.T) {
	trip := threeStopTrip()
	d := NewVehicleDriver(trip, NewPickupTable(), zerolog.Nop())
	d.Arrive(100)
	d.Arrive(200)
	out := d.Arrive(300)
	assert.Empty(t, out)
	assert.Equal(t, 2, d.CurrentStopIndex())
}

func TestVehicleDriverBoardsWaitingPassengerAndAlightsLater(t *testing.T) {
	trip := threeStopTrip()
	pickups := NewPickupTable()

	resumed := -1
	pickups.Add(0, trip.ID, Pickup{
		AlightStop: 2,
		Resume: func(time int) []events.Next {
			resumed = time
			return nil
		},
	})

	d := NewVehicleDriver(trip, pickups, zerolog.Nop())
	d.Arrive(100) // board at stop 0
	d.Arrive(200) // pass through stop 1, nothing to alight
	assert.Equal(t, -1, resumed)

	d.Arrive(300) // alight at stop 2
	assert.Equal(t, 300, resumed)
}

func TestPickupTableDrainIsOncePerTrip(t *testing.T) {
	pt := NewPickupTable()
	pt.Add(5, 1, Pickup{AlightStop: 9})
	pt.Add(5, 1, Pickup{AlightStop: 10})

	got := pt.Drain(5, 1)
	assert.Len(t, got, 2)

	got2 := pt.Drain(5, 1)
	assert.Empty(t, got2)
}
