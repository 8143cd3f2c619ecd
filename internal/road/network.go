// Package road implements the congestion-aware road graph and router of
// spec.md §4.2/§4.3: a directed multigraph with mutable per-edge occupancy,
// a spatial index for endpoint resolution, and a Dijkstra search over a
// live (recomputed-per-query) edge-cost function.
//
// Grounded on original_source/road/network.py and original_source/road/router.py,
// generalized onto gonum.org/v1/gonum/graph: the pack's only graph library,
// also exercised by graph/path's Dijkstra/A* implementations.
package road

import (
	"math"

	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/geoindex"
	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/simerr"
)

// Network is the city's road multigraph. Nodes are intersections or edge
// endpoints; edges are directed segments stored by EdgeKey alone, so a key
// must be unique across the whole network (AddEdge replaces any earlier
// edge with the same key). Parallel edges (divided carriageways, service
// roads) coexist under distinct keys. Occupancy
// on a RoadEdge is the only field mutated after construction, and only by
// road-vehicle drivers.
type Network struct {
	cfg   config.Config
	nodes map[model.NodeID]model.Point
	edges map[model.EdgeKey]*model.RoadEdge
	out   map[model.NodeID][]model.EdgeKey

	edgeIdx *geoindex.Index[model.EdgeKey]
}

// NewNetwork builds an empty road network.
func NewNetwork(cfg config.Config) *Network {
	return &Network{
		cfg:   cfg,
		nodes: make(map[model.NodeID]model.Point),
		edges: make(map[model.EdgeKey]*model.RoadEdge),
		out:   make(map[model.NodeID][]model.EdgeKey),
	}
}

// AddNode registers an intersection/endpoint's coordinates.
func (n *Network) AddNode(id model.NodeID, p model.Point) { n.nodes[id] = p }

// AddEdge registers a directed road segment.
func (n *Network) AddEdge(e *model.RoadEdge) {
	n.edges[e.Key] = e
	n.out[e.From] = append(n.out[e.From], e.Key)
}

// Edge looks up an edge by key.
func (n *Network) Edge(key model.EdgeKey) (*model.RoadEdge, bool) {
	e, ok := n.edges[key]
	return e, ok
}

// NodeCount reports how many nodes the network holds.
func (n *Network) NodeCount() int { return len(n.nodes) }

// EdgeCount reports how many edges the network holds.
func (n *Network) EdgeCount() int { return len(n.edges) }

// BuildIndex must be called once after all edges are added, before any
// endpoint resolution or routing query.
func (n *Network) BuildIndex() {
	items := make([]geoindex.Item[model.EdgeKey], 0, len(n.edges))
	for key, e := range n.edges {
		mid := midpoint(e.Geometry)
		items = append(items, geoindex.Item[model.EdgeKey]{Lat: mid.Lat, Lon: mid.Lon, Value: key})
	}
	n.edgeIdx = geoindex.New(items)
}

func midpoint(geom []model.Point) model.Point {
	if len(geom) == 0 {
		return model.Point{}
	}
	return geom[len(geom)/2]
}

// Endpoint is a coordinate resolved onto a road edge, per spec.md §4.2:
// the edge itself plus the projection parameter along it, in [0,1].
type Endpoint struct {
	Edge *model.RoadEdge
	P    float64
}

// Resolve maps a coordinate onto the nearest road edge: query the spatial
// index with a small bounding-box radius (doubling until non-empty),
// project the point onto the candidate edges' geometries, choose the
// nearest.
func (n *Network) Resolve(pt model.Point) (Endpoint, error) {
	if n.edgeIdx == nil || len(n.edges) == 0 {
		return Endpoint{}, simerr.ErrNoRoadRoute
	}
	radiusM := n.cfg.BoundRadius * 111000
	if radiusM <= 0 {
		radiusM = 50
	}
	cands := n.edgeIdx.WithinRadius(pt.Lat, pt.Lon, radiusM)
	if len(cands) == 0 {
		return Endpoint{}, simerr.ErrNoRoadRoute
	}

	var best Endpoint
	bestDist := math.Inf(1)
	for _, c := range cands {
		e := n.edges[c.Value]
		d, t := projectOntoPolyline(pt, e.Geometry)
		if d < bestDist {
			bestDist = d
			best = Endpoint{Edge: e, P: t}
		}
	}
	return best, nil
}

// projectOntoPolyline returns the distance from pt to its nearest point on
// the polyline geom, and the fraction of the polyline's total length
// (by arc length, not by segment count) at which that nearest point falls.
func projectOntoPolyline(pt model.Point, geom []model.Point) (dist float64, frac float64) {
	if len(geom) == 0 {
		return math.Inf(1), 0
	}
	if len(geom) == 1 {
		return geoindex.HaversineM(pt.Lat, pt.Lon, geom[0].Lat, geom[0].Lon), 0
	}

	segLens := make([]float64, len(geom)-1)
	totalLen := 0.0
	for i := 0; i < len(geom)-1; i++ {
		segLens[i] = geoindex.HaversineM(geom[i].Lat, geom[i].Lon, geom[i+1].Lat, geom[i+1].Lon)
		totalLen += segLens[i]
	}
	if totalLen == 0 {
		return geoindex.HaversineM(pt.Lat, pt.Lon, geom[0].Lat, geom[0].Lon), 0
	}

	bestDist := math.Inf(1)
	bestAlong := 0.0
	cum := 0.0
	for i := 0; i < len(geom)-1; i++ {
		d, t := projectOntoSegment(pt, geom[i], geom[i+1])
		if d < bestDist {
			bestDist = d
			bestAlong = cum + t*segLens[i]
		}
		cum += segLens[i]
	}
	return bestDist, bestAlong / totalLen
}

// projectOntoSegment projects pt onto segment a-b using a local
// equirectangular approximation (adequate at the scale of one road
// segment), returning the distance to the projection and the fraction
// along a-b it falls at, clamped to [0,1].
func projectOntoSegment(pt, a, b model.Point) (dist float64, frac float64) {
	const earthR = 6371000.0
	toRad := math.Pi / 180
	lat0 := a.Lat * toRad
	cosLat0 := math.Cos(lat0)

	ax, ay := 0.0, 0.0
	bx := (b.Lon - a.Lon) * toRad * cosLat0 * earthR
	by := (b.Lat - a.Lat) * toRad * earthR
	px := (pt.Lon - a.Lon) * toRad * cosLat0 * earthR
	py := (pt.Lat - a.Lat) * toRad * earthR

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return geoindex.HaversineM(pt.Lat, pt.Lon, a.Lat, a.Lon), 0
	}

	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	projLat := a.Lat + t*(b.Lat-a.Lat)
	projLon := a.Lon + t*(b.Lon-a.Lon)
	return geoindex.HaversineM(pt.Lat, pt.Lon, projLat, projLon), t
}
