// Package store persists spec.md §6's simulation output — agent_trips and
// road_capacities — behind a Storage interface with in-memory, SQLite and
// Postgres implementations.
//
// Grounded on tidbyt-gtfs/storage/{storage.go,memory.go,sqlite.go,
// postgres.go}'s interface-first, multi-backend shape: one Storage
// interface, a schema-in-Exec-string SQLite/Postgres pair sharing the same
// table layout, and a map-backed Memory implementation for tests and small
// runs.
package store

import (
	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/roadveh"
)

// AgentTrip is one row of spec.md §6's agent_trips output.
type AgentTrip struct {
	AgentID       string
	StartLat      float64
	StartLon      float64
	EndLat        float64
	EndLon        float64
	StopType      string // "public" or "private"
	DepartureS    int
	ArrivalS      int
}

// OccupancySample is one entry of an edge's road_capacities time series.
type OccupancySample struct {
	Occupancy int
	TimeS     int
}

// Storage is the sink for a simulation run's output. It also implements
// roadveh.Recorder directly, so a road vehicle's occupancy log writes
// straight into the configured backend.
type Storage interface {
	roadveh.Recorder

	RecordAgentTrip(trip AgentTrip) error

	// AgentTrips returns every recorded trip, in insertion order.
	AgentTrips() ([]AgentTrip, error)

	// RoadCapacities returns the recorded occupancy time series per edge.
	RoadCapacities() (map[model.EdgeKey][]OccupancySample, error)

	Close() error
}
