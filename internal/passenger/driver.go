// Package passenger implements the passenger driver state machine of
// spec.md §4.8: a passenger walks, transfers, or rides through its
// remaining plan, registering itself in a transit vehicle's pickup table
// for Ride legs and resuming (via that vehicle's alight step) once it
// reaches its boarded leg's destination.
//
// Grounded on original_source/sim/vehicle.py's passenger pickup
// conventions and jwmdev-brt08/model/passenger.go's rider bookkeeping.
package passenger

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/transitlab/citysim/internal/events"
	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/transit"
)

// Driver advances one passenger's remaining plan.
type Driver struct {
	ID uuid.UUID

	legs       []model.PassengerLeg
	pickups    *transit.PickupTable
	onComplete func(time int)
	log        zerolog.Logger
}

// NewDriver builds a passenger driver over the given plan. onComplete is
// invoked with the passenger's final arrival time once its plan is
// exhausted.
func NewDriver(legs []model.PassengerLeg, pickups *transit.PickupTable, onComplete func(time int), log zerolog.Logger) *Driver {
	return &Driver{
		ID:         uuid.New(),
		legs:       append([]model.PassengerLeg(nil), legs...),
		pickups:    pickups,
		onComplete: onComplete,
		log:        log,
	}
}

// Start is the Action to schedule at the passenger's departure time.
func (d *Driver) Start(time int) []events.Next {
	return d.advance(time)
}

// advance consumes one leg of the remaining plan. Walk and Transfer legs
// are self-timed; a Ride leg instead registers the passenger in its board
// stop's pickup table and produces no event of its own — the boarding
// trip's vehicle resumes the passenger when it later alights them.
func (d *Driver) advance(time int) []events.Next {
	if len(d.legs) == 0 {
		d.onComplete(time)
		return nil
	}

	leg := d.legs[0]
	d.legs = d.legs[1:]

	switch leg.Kind {
	case model.LegWalk, model.LegTransfer:
		return []events.Next{{Delay: leg.TimeS, Action: d.advance}}
	case model.LegRide:
		d.pickups.Add(leg.BoardStop, leg.Trip, transit.Pickup{
			AlightStop: leg.AlightStop,
			Resume:     d.advance,
		})
		return nil
	default:
		d.log.Error().Int("kind", int(leg.Kind)).Msg("passenger plan has unknown leg kind")
		return d.advance(time)
	}
}
