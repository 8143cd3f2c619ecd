package model

// NodeID indexes a road-graph intersection/endpoint.
type NodeID int64

// EdgeKey disambiguates parallel edges between the same pair of nodes in
// the road multigraph.
type EdgeKey int64

// Point is a (lat, lon) pair used for geometry and nearest-neighbour
// queries.
type Point struct {
	Lat float64
	Lon float64
}

// RoadEdge is one directed segment of the road network. Occupancy is the
// only field mutated after construction, and only by road-vehicle drivers.
type RoadEdge struct {
	From      NodeID
	To        NodeID
	Key       EdgeKey
	LengthM   float64
	MaxSpeed  float64 // m/s
	Lanes     int
	Capacity  float64 // vehicles/hour
	Occupancy int
	Geometry  []Point // from -> to, at least the two endpoints
	Highway   string
}

// RoadLeg is one edge-sized piece of a road plan: the edge plus the
// fraction of it actually traversed (start/end legs may cover less than the
// full edge).
type RoadLeg struct {
	From NodeID
	To   NodeID
	Key  EdgeKey
	P    float64 // fraction of the edge traversed, in (0, 1]
}
