package transit

import (
	"sync"

	"github.com/transitlab/citysim/internal/events"
	"github.com/transitlab/citysim/internal/model"
)

// Resume is invoked when a vehicle reaches a passenger's alight stop; it
// returns whatever further events that passenger's continuation produces
// (e.g. the next leg of its plan).
type Resume func(time int) []events.Next

// Pickup is one waiting rider: the stop they'll alight at, and the action
// to resume their plan when that happens.
type Pickup struct {
	AlightStop model.StopID
	Resume     Resume
}

// PickupTable is spec.md §3's pickups[stop][trip] map: it lets a transit
// vehicle find its waiting riders when it reaches a stop. Guarded by a
// mutex, so it is safe for concurrent use; in this module it is only
// touched from actions run by the kernel's single-threaded loop.
type PickupTable struct {
	mu sync.Mutex
	m  map[model.StopID]map[model.TripID][]Pickup
}

// NewPickupTable builds an empty pickup table.
func NewPickupTable() *PickupTable {
	return &PickupTable{m: make(map[model.StopID]map[model.TripID][]Pickup)}
}

// Add registers a rider waiting at stop for trip.
func (t *PickupTable) Add(stop model.StopID, trip model.TripID, p Pickup) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.m[stop] == nil {
		t.m[stop] = make(map[model.TripID][]Pickup)
	}
	t.m[stop][trip] = append(t.m[stop][trip], p)
}

// Drain removes and returns every rider waiting at stop for trip.
func (t *PickupTable) Drain(stop model.StopID, trip model.TripID) []Pickup {
	t.mu.Lock()
	defer t.mu.Unlock()
	byTrip := t.m[stop]
	if byTrip == nil {
		return nil
	}
	out := byTrip[trip]
	delete(byTrip, trip)
	return out
}
