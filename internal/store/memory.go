package store

import (
	"sort"
	"sync"

	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/roadveh"
)

// Memory is an in-process Storage, the default backend for tests and
// small runs, matching tidbyt-gtfs/storage.MemoryStorage's map-of-slices
// shape.
type Memory struct {
	mu         sync.Mutex
	trips      []AgentTrip
	capacities map[model.EdgeKey][]OccupancySample
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{capacities: make(map[model.EdgeKey][]OccupancySample)}
}

func (m *Memory) RecordOccupancy(ev roadveh.OccupancyEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.capacities[ev.EdgeKey] = append(m.capacities[ev.EdgeKey], OccupancySample{Occupancy: ev.Occupancy, TimeS: ev.Time})
}

func (m *Memory) RecordAgentTrip(trip AgentTrip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips = append(m.trips, trip)
	return nil
}

func (m *Memory) AgentTrips() ([]AgentTrip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AgentTrip, len(m.trips))
	copy(out, m.trips)
	return out, nil
}

func (m *Memory) RoadCapacities() (map[model.EdgeKey][]OccupancySample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[model.EdgeKey][]OccupancySample, len(m.capacities))
	for k, v := range m.capacities {
		cp := make([]OccupancySample, len(v))
		copy(cp, v)
		sort.Slice(cp, func(i, j int) bool { return cp[i].TimeS < cp[j].TimeS })
		out[k] = cp
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
