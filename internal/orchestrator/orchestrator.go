// Package orchestrator wires spec.md §4's components into one runnable
// simulation: it pre-queues every scheduled transit vehicle for the
// operating day, plans each agent's trip (transit via internal/csa, private
// via internal/road), hands both to internal/kernel, and collects the
// result into an internal/store backend.
//
// Grounded on jwmdev-brt08/driver/batch.go's Run (headless driver:
// construct the fleet, seed the event queue, drain it, summarize) and
// jwmdev-brt08/sim/report.go's end-of-run reporting, generalized from one
// fixed BRT corridor to a full multimodal city and from an in-memory
// passenger count to the §6 agent_trips/road_capacities output.
package orchestrator

import (
	"github.com/rs/zerolog"

	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/csa"
	"github.com/transitlab/citysim/internal/events"
	"github.com/transitlab/citysim/internal/ingest"
	"github.com/transitlab/citysim/internal/kernel"
	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/passenger"
	"github.com/transitlab/citysim/internal/road"
	"github.com/transitlab/citysim/internal/roadveh"
	"github.com/transitlab/citysim/internal/store"
	"github.com/transitlab/citysim/internal/telemetry"
	"github.com/transitlab/citysim/internal/transit"
)

// Options configures one simulation run.
type Options struct {
	Connections *model.ConnectionStore
	Net         *road.Network
	Requests    []ingest.TripRequest
	Config      config.Config
	Storage     store.Storage
	Log         zerolog.Logger
}

// VehicleTrace is one entry of the optional debug trip trace: one occupancy
// change (entering or leaving an edge) caused by a private agent's road
// vehicle, with the occupancy after the change, grounded on original_source/road/trip.py's
// Trip.segments bookkeeping. Only populated when Config.RecordVehicleTraces
// is set.
type VehicleTrace struct {
	AgentID   string
	EdgeKey   model.EdgeKey
	Occupancy int
	TimeS     int
}

// RunResult summarizes a completed simulation.
type RunResult struct {
	Planned         int
	Dropped         int
	TripsScheduled  int
	EventsProcessed int
	Counters        *telemetry.Counters
	VehicleTraces   []VehicleTrace
}

// Run drains one simulation of the given requests over the given
// connection store and road network, recording output into opts.Storage.
func Run(opts Options) (RunResult, error) {
	log := telemetry.Component(opts.Log, "orchestrator")
	cfg := opts.Config
	counters := &telemetry.Counters{}
	k := kernel.New(telemetry.Component(opts.Log, "kernel"))

	router := road.NewRouter(opts.Net, cfg)
	planner := csa.NewPlanner(opts.Connections, cfg)
	pickups := transit.NewPickupTable()

	var traces []VehicleTrace
	result := RunResult{Counters: counters}

	stopPoints := make(map[model.StopID]model.Point, len(opts.Connections.Stops))
	for _, s := range opts.Connections.Stops {
		stopPoints[s.ID] = model.Point{Lat: s.Lat, Lon: s.Lon}
	}

	scheduleTransitFleet(k, opts.Connections, pickups, stopPoints, opts.Net, router, opts.Storage, cfg, counters, opts.Log, &result)

	for _, req := range opts.Requests {
		if req.Public {
			scheduleTransitAgent(k, planner, pickups, req, opts.Storage, log, &result)
			continue
		}
		scheduleRoadAgent(k, router, opts.Net, cfg, req, opts.Storage, &traces, log, &result)
	}

	k.Run()

	result.EventsProcessed = k.EventsProcessed()
	result.VehicleTraces = traces
	return result, nil
}

// scheduleTransitFleet pre-queues every expanded trip's first Arrive event,
// per spec.md §4.6/§4.7: a bus trip drives the road network between stops,
// every other route type follows its fixed schedule.
func scheduleTransitFleet(
	k *kernel.Kernel,
	cs *model.ConnectionStore,
	pickups *transit.PickupTable,
	stopPoints map[model.StopID]model.Point,
	net *road.Network,
	router *road.Router,
	st store.Storage,
	cfg config.Config,
	counters *telemetry.Counters,
	log zerolog.Logger,
	result *RunResult,
) {
	for i := range cs.Trips {
		trip := &cs.Trips[i]
		if len(trip.Stops) == 0 {
			continue
		}
		first := trip.Stops[0]

		if trip.RouteType.IsBus() {
			vehLog := telemetry.Component(log, "roadveh")
			vehicle := roadveh.NewVehicle(net, cfg, st, vehLog)
			bus := transit.NewBusDriver(trip, pickups, stopPoints, router, vehicle, cfg, counters,
				telemetry.Component(log, "transit"))
			k.Schedule(first.ScheduledArrival, bus.Arrive)
		} else {
			driver := transit.NewVehicleDriver(trip, pickups, telemetry.Component(log, "transit"))
			k.Schedule(first.ScheduledArrival, driver.Arrive)
		}
		result.TripsScheduled++
	}
}

// scheduleTransitAgent plans req through the multimodal CSA planner and, on
// success, schedules a passenger driver to start at the planned departure
// time; a planning failure is dropped with a warning per spec.md §7.
func scheduleTransitAgent(
	k *kernel.Kernel,
	planner *csa.Planner,
	pickups *transit.PickupTable,
	req ingest.TripRequest,
	st store.Storage,
	log zerolog.Logger,
	result *RunResult,
) {
	plan, err := planner.Plan(req.Origin, req.Destination, req.DepartureS)
	if err != nil {
		log.Warn().Str("agent_id", req.AgentID).Err(err).Msg("agent trip cannot be planned, dropping")
		result.Dropped++
		return
	}

	onComplete := func(arrival int) {
		if err := st.RecordAgentTrip(store.AgentTrip{
			AgentID:    req.AgentID,
			StartLat:   req.Origin.Lat,
			StartLon:   req.Origin.Lon,
			EndLat:     req.Destination.Lat,
			EndLon:     req.Destination.Lon,
			StopType:   "public",
			DepartureS: plan.DepartureTime,
			ArrivalS:   arrival,
		}); err != nil {
			log.Error().Str("agent_id", req.AgentID).Err(err).Msg("recording agent trip failed")
		}
	}

	driver := passenger.NewDriver(plan.Legs, pickups, onComplete, telemetry.Component(log, "passenger"))
	k.Schedule(plan.DepartureTime, driver.Start)
	result.Planned++
}

// scheduleRoadAgent plans req through the road router as a private-vehicle
// trip and schedules its drive to start immediately at departure time.
func scheduleRoadAgent(
	k *kernel.Kernel,
	router *road.Router,
	net *road.Network,
	cfg config.Config,
	req ingest.TripRequest,
	st store.Storage,
	traces *[]VehicleTrace,
	log zerolog.Logger,
	result *RunResult,
) {
	plan, err := router.Route(req.Origin, req.Destination)
	if err != nil {
		log.Warn().Str("agent_id", req.AgentID).Err(err).Msg("agent trip cannot be planned, dropping")
		result.Dropped++
		return
	}

	var rec roadveh.Recorder = st
	if cfg.RecordVehicleTraces {
		rec = &traceRecorder{agentID: req.AgentID, under: st, traces: traces}
	}

	vehicle := roadveh.NewVehicle(net, cfg, rec, telemetry.Component(log, "roadveh"))
	vehicle.Reset(plan, func(arrival int) []events.Next {
		if err := st.RecordAgentTrip(store.AgentTrip{
			AgentID:    req.AgentID,
			StartLat:   req.Origin.Lat,
			StartLon:   req.Origin.Lon,
			EndLat:     req.Destination.Lat,
			EndLon:     req.Destination.Lon,
			StopType:   "private",
			DepartureS: req.DepartureS,
			ArrivalS:   arrival,
		}); err != nil {
			log.Error().Str("agent_id", req.AgentID).Err(err).Msg("recording agent trip failed")
		}
		return nil
	})
	k.Schedule(req.DepartureS, vehicle.Drive)
	result.Planned++
}

// traceRecorder wraps a Storage to additionally capture a per-agent debug
// trace of its road vehicle's edge-by-edge progress, mirroring
// original_source/road/trip.py's Trip.segments bookkeeping.
type traceRecorder struct {
	agentID string
	under   roadveh.Recorder
	traces  *[]VehicleTrace
}

func (r *traceRecorder) RecordOccupancy(ev roadveh.OccupancyEvent) {
	r.under.RecordOccupancy(ev)
	*r.traces = append(*r.traces, VehicleTrace{AgentID: r.agentID, EdgeKey: ev.EdgeKey, Occupancy: ev.Occupancy, TimeS: ev.Time})
}
