package passenger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/transit"
)

func TestDriverWalkLegSelfTimesThenCompletes(t *testing.T) {
	pickups := transit.NewPickupTable()
	completedAt := -1
	d := NewDriver([]model.PassengerLeg{model.Walk(90)}, pickups, func(time int) {
		completedAt = time
	}, zerolog.Nop())

	out := d.Start(0)
	require.Len(t, out, 1)
	assert.Equal(t, 90, out[0].Delay)

	out2 := out[0].Action(90)
	assert.Empty(t, out2)
	assert.Equal(t, 90, completedAt)
}

func TestDriverRideLegRegistersPickupAndProducesNoImmediateEvent(t *testing.T) {
	pickups := transit.NewPickupTable()
	completed := false
	d := NewDriver([]model.PassengerLeg{
		model.Ride(7, 2, 4, 100, 200),
	}, pickups, func(time int) { completed = true }, zerolog.Nop())

	out := d.Start(50)
	assert.Empty(t, out)
	assert.False(t, completed)

	waiting := pickups.Drain(2, 7)
	require.Len(t, waiting, 1)
	assert.Equal(t, model.StopID(4), waiting[0].AlightStop)

	// the boarding trip's vehicle invokes Resume when it alights the rider.
	resumeOut := waiting[0].Resume(200)
	assert.Empty(t, resumeOut)
	assert.True(t, completed)
}

func TestDriverMultiLegPlanAdvancesInOrder(t *testing.T) {
	pickups := transit.NewPickupTable()
	completedAt := -1
	d := NewDriver([]model.PassengerLeg{
		model.Walk(30),
		model.Ride(1, 0, 1, 30, 130),
		model.Walk(20),
	}, pickups, func(time int) { completedAt = time }, zerolog.Nop())

	out := d.Start(0)
	require.Len(t, out, 1)
	assert.Equal(t, 30, out[0].Delay)

	out2 := out[0].Action(30)
	assert.Empty(t, out2) // queued for pickup, no self-timed event

	waiting := pickups.Drain(0, 1)
	require.Len(t, waiting, 1)

	out3 := waiting[0].Resume(130)
	require.Len(t, out3, 1)
	assert.Equal(t, 20, out3[0].Delay)

	out4 := out3[0].Action(150)
	assert.Empty(t, out4)
	assert.Equal(t, 150, completedAt)
}
