package transit

import (
	"github.com/rs/zerolog"

	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/events"
	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/road"
	"github.com/transitlab/citysim/internal/roadveh"
	"github.com/transitlab/citysim/internal/telemetry"
)

// BusDriver couples a VehicleDriver's board/alight semantics to a physical
// road vehicle, per spec.md §4.7. Between stops it leaves the fixed
// schedule behind and actually drives the road network, so its arrival
// time reflects congestion; its passenger-facing behavior (boarding,
// alighting, pickup table) is unchanged from a plain transit vehicle.
type BusDriver struct {
	transit *VehicleDriver
	road    *roadveh.Vehicle
	router  *road.Router
	stops   map[model.StopID]model.Point
	cfg     config.Config
	counters *telemetry.Counters
	log     zerolog.Logger
}

// NewBusDriver builds a bus driver for trip, coupled to the given road
// vehicle and router.
func NewBusDriver(
	trip *model.Trip,
	pickups *PickupTable,
	stops map[model.StopID]model.Point,
	router *road.Router,
	vehicle *roadveh.Vehicle,
	cfg config.Config,
	counters *telemetry.Counters,
	log zerolog.Logger,
) *BusDriver {
	return &BusDriver{
		transit:  NewVehicleDriver(trip, pickups, log),
		road:     vehicle,
		router:   router,
		stops:    stops,
		cfg:      cfg,
		counters: counters,
		log:      log,
	}
}

// Arrive fires on reaching a stop, whether that stop was reached on
// schedule (the very first stop) or by the road driver's on_arrive hook.
func (b *BusDriver) Arrive(time int) []events.Next {
	out := b.transit.Arrive(time)

	idx := b.transit.CurrentStopIndex()
	if idx+1 >= len(b.transit.Trip.Stops) {
		return out
	}

	// The transit driver appended the plain scheduled continuation as the
	// last event; the road driver replaces it.
	out = out[:len(out)-1]

	cur := b.transit.Trip.Stops[idx]
	next := b.transit.Trip.Stops[idx+1]
	scheduledTravel := next.ScheduledArrival - cur.ScheduledDeparture
	dwell := cur.ScheduledDeparture - cur.ScheduledArrival

	plan, err := b.router.RouteBus(cur.Stop, next.Stop, b.stops[cur.Stop], b.stops[next.Stop])
	if err != nil {
		b.counters.IncRoadRouteFallback()
		b.log.Debug().
			Int("from_stop", int(cur.Stop)).Int("to_stop", int(next.Stop)).
			Msg("no road route for bus segment, falling back to schedule")
		out = append(out, events.Next{Delay: scheduledTravel, Action: b.Arrive})
		return out
	}

	kickoffTime := time + dwell
	b.road.Reset(plan, func(arriveTime int) []events.Next {
		if b.cfg.RecordVehicleTraces {
			b.recordDelay(arriveTime, kickoffTime, scheduledTravel, idx)
		}
		return b.Arrive(arriveTime)
	})
	out = append(out, events.Next{Delay: dwell, Action: b.road.Drive})
	return out
}

func (b *BusDriver) recordDelay(arriveTime, kickoffTime, scheduledTravel, stopIdx int) {
	actual := arriveTime - kickoffTime
	delta := actual - scheduledTravel
	b.log.Debug().
		Int("stop_index", stopIdx).
		Int("actual_travel_s", actual).
		Int("scheduled_travel_s", scheduledTravel).
		Int("delta_s", delta).
		Msg("bus segment travel delay")

	if delta > int(b.cfg.AcceptableDelayMargin.Seconds()) {
		b.counters.IncDelayMarginBreach()
		b.log.Warn().
			Int("stop_index", stopIdx).Int("delta_s", delta).
			Msg("bus delay exceeds acceptable margin")
	}
}
