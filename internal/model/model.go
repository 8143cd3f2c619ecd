// Package model holds the data types shared across the simulation core:
// stops, trips, connections and footpaths (the public-transit side, §3),
// and the road multigraph's edge/leg types (the road side, §3).
package model

import "fmt"

// RouteType mirrors the GTFS route_type enumeration spec.md §3 restricts
// stop-serving trips to.
type RouteType int

const (
	RouteTypeTram RouteType = iota
	RouteTypeMetro
	RouteTypeRail
	RouteTypeBus
	RouteTypeFerry
	RouteTypeCable
	RouteTypeGondola
	RouteTypeFunicular
)

func (t RouteType) IsBus() bool { return t == RouteTypeBus }

// StopID and TripID are dense indices into the Stop/Trip arrays (see
// internal/ids for the string<->int mapping built at ingestion time).
type StopID int
type TripID int

// Stop is an immutable point in the transit network.
type Stop struct {
	ID   StopID
	Code string
	Name string
	Lat  float64
	Lon  float64
}

// TripStop is one scheduled visit within a trip's stop sequence.
type TripStop struct {
	Stop               StopID
	ScheduledArrival   int // seconds from simulation epoch
	ScheduledDeparture int
	Sequence           int
}

// FrequencySpan expands a trip template into concrete vehicle starts.
type FrequencySpan struct {
	StartS  int
	EndS    int
	Headway int
}

// Trip is a scheduled vehicle run template: an ordered stop sequence, a
// route-type tag, and zero or more frequency spans.
type Trip struct {
	ID        TripID
	RouteType RouteType
	Stops     []TripStop
	Freqs     []FrequencySpan
}

// Connection is the fundamental CSA unit: one consecutive stop-pair hop of
// one expanded vehicle run.
type Connection struct {
	DepartureTime int
	DepartureStop StopID
	ArrivalTime   int
	ArrivalStop   StopID
	Trip          TripID
}

// FootConnection represents a walked transfer used while reconstructing a
// CSA journey; it carries no Trip.
type FootConnection struct {
	DepartureTime int
	DepartureStop StopID
	ArrivalTime   int
	ArrivalStop   StopID
}

// Leg is one segment of a reconstructed CSA journey: either a timetabled
// Connection or a walked FootConnection. Exactly one of Ride/Foot is set.
type Leg struct {
	Ride *Connection
	Foot *FootConnection
}

func (l Leg) DepartureTime() int {
	if l.Ride != nil {
		return l.Ride.DepartureTime
	}
	return l.Foot.DepartureTime
}

func (l Leg) ArrivalTime() int {
	if l.Ride != nil {
		return l.Ride.ArrivalTime
	}
	return l.Foot.ArrivalTime
}

func (l Leg) DepartureStop() StopID {
	if l.Ride != nil {
		return l.Ride.DepartureStop
	}
	return l.Foot.DepartureStop
}

func (l Leg) ArrivalStop() StopID {
	if l.Ride != nil {
		return l.Ride.ArrivalStop
	}
	return l.Foot.ArrivalStop
}

func (l Leg) String() string {
	if l.Ride != nil {
		return fmt.Sprintf("Ride(trip=%d, %d@%d -> %d@%d)", l.Ride.Trip, l.Ride.DepartureStop, l.Ride.DepartureTime, l.Ride.ArrivalStop, l.Ride.ArrivalTime)
	}
	return fmt.Sprintf("Foot(%d@%d -> %d@%d)", l.Foot.DepartureStop, l.Foot.DepartureTime, l.Foot.ArrivalStop, l.Foot.ArrivalTime)
}

// Footpath is a precomputed walkable transfer between two nearby stops.
type Footpath struct {
	DepartureStop StopID
	ArrivalStop   StopID
	WalkTimeS     int
}

// ConnectionStore is the immutable, departure-time-sorted list of
// connections for one operating day, plus each stop's outgoing footpaths.
type ConnectionStore struct {
	Connections []Connection
	Footpaths   [][]Footpath // indexed by StopID
	Stops       []Stop
	Trips       []Trip
}

// FootpathsFrom returns the outgoing footpaths for stop s, or nil if s is
// out of range or has none.
func (cs *ConnectionStore) FootpathsFrom(s StopID) []Footpath {
	if int(s) < 0 || int(s) >= len(cs.Footpaths) {
		return nil
	}
	return cs.Footpaths[s]
}
