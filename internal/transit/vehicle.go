// Package transit implements the transit vehicle driver of spec.md §4.6
// and the bus hybrid driver of §4.7.
//
// Grounded on original_source/sim/vehicle.py's board/alight sequence and
// jwmdev-brt08/model/bus.go's stop-index stepping, generalized from a
// single hardcoded route to any GTFS trip and coupled (for buses) to
// internal/roadveh's road-vehicle driver.
package transit

import (
	"github.com/rs/zerolog"

	"github.com/transitlab/citysim/internal/events"
	"github.com/transitlab/citysim/internal/model"
)

// VehicleDriver runs one expanded trip's board/alight state machine.
// currentStopIndex starts at -1 per spec.md §4.6.
type VehicleDriver struct {
	Trip *model.Trip

	pickups *PickupTable
	log     zerolog.Logger

	currentStopIndex int
	passengersByDest map[model.StopID][]Resume
}

// NewVehicleDriver builds a driver for one expanded vehicle of trip.
func NewVehicleDriver(trip *model.Trip, pickups *PickupTable, log zerolog.Logger) *VehicleDriver {
	return &VehicleDriver{
		Trip:             trip,
		pickups:          pickups,
		log:              log,
		currentStopIndex: -1,
		passengersByDest: make(map[model.StopID][]Resume),
	}
}

// CurrentStopIndex reports the index of the stop most recently reached.
func (d *VehicleDriver) CurrentStopIndex() int { return d.currentStopIndex }

// Arrive fires on reaching the stop at currentStopIndex+1: board waiting
// riders, alight arriving ones, and schedule the next arrival if one
// remains.
func (d *VehicleDriver) Arrive(time int) []events.Next {
	d.currentStopIndex++
	ts := d.Trip.Stops[d.currentStopIndex]
	s := ts.Stop

	for _, p := range d.pickups.Drain(s, d.Trip.ID) {
		d.passengersByDest[p.AlightStop] = append(d.passengersByDest[p.AlightStop], p.Resume)
	}

	var out []events.Next
	for _, resume := range d.passengersByDest[s] {
		out = append(out, resume(time)...)
	}
	delete(d.passengersByDest, s)

	if d.currentStopIndex+1 < len(d.Trip.Stops) {
		next := d.Trip.Stops[d.currentStopIndex+1]
		delta := next.ScheduledArrival - ts.ScheduledDeparture
		out = append(out, events.Next{Delay: delta, Action: d.Arrive})
	}
	return out
}
