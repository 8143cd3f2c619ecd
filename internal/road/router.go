package road

import (
	"sync"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/simerr"
)

// Plan is an ordered sequence of road legs from one coordinate to another.
type Plan struct {
	Legs []model.RoadLeg
}

// busCacheKey identifies a bus's road route by the stop pair it connects:
// valid because a bus's start/end edges derive deterministically from
// fixed stop positions, per spec.md §4.2.
type busCacheKey struct {
	From, To model.StopID
}

// Router answers road-routing queries over a Network using Dijkstra's
// algorithm (gonum.org/v1/gonum/graph/path) with live, congestion-aware
// edge weights. It caches bus routes by (from_stop, to_stop).
type Router struct {
	net *Network
	cfg config.Config

	mu       sync.Mutex
	busCache map[busCacheKey]Plan
}

// NewRouter builds a Router over the given network.
func NewRouter(net *Network, cfg config.Config) *Router {
	return &Router{net: net, cfg: cfg, busCache: make(map[busCacheKey]Plan)}
}

// Route finds the cheapest-time road plan between two coordinates.
func (r *Router) Route(start, end model.Point) (Plan, error) {
	es, err := r.net.Resolve(start)
	if err != nil {
		return Plan{}, simerr.ErrNoRoadRoute
	}
	ee, err := r.net.Resolve(end)
	if err != nil {
		return Plan{}, simerr.ErrNoRoadRoute
	}
	return r.routeBetweenEdges(es, ee)
}

// RouteBus is Route specialized for bus trips, caching the result by
// (fromStop, toStop) since repeated calls for the same scheduled hop are
// common across a simulation run.
func (r *Router) RouteBus(fromStop, toStop model.StopID, start, end model.Point) (Plan, error) {
	key := busCacheKey{From: fromStop, To: toStop}

	r.mu.Lock()
	if p, ok := r.busCache[key]; ok {
		r.mu.Unlock()
		return p, nil
	}
	r.mu.Unlock()

	p, err := r.Route(start, end)
	if err != nil {
		return Plan{}, err
	}

	r.mu.Lock()
	r.busCache[key] = p
	r.mu.Unlock()
	return p, nil
}

// routeBetweenEdges implements spec.md §4.2's search and leg-construction
// steps once both endpoints have been resolved onto edges.
func (r *Router) routeBetweenEdges(es, ee Endpoint) (Plan, error) {
	if es.Edge.Key == ee.Edge.Key {
		if ee.P < es.P {
			return Plan{}, simerr.ErrNoRoadRoute
		}
		return Plan{Legs: []model.RoadLeg{
			{From: es.Edge.From, To: es.Edge.To, Key: es.Edge.Key, P: ee.P - es.P},
		}}, nil
	}

	g := &liveGraph{n: r.net}
	src := simple.Node(es.Edge.To)
	dst := simple.Node(ee.Edge.From)

	var nodes []graph.Node
	if src.ID() == dst.ID() {
		nodes = []graph.Node{src}
	} else {
		shortest := path.DijkstraFrom(src, g)
		p, _ := shortest.To(dst.ID())
		if p == nil {
			return Plan{}, simerr.ErrNoRoadRoute
		}
		nodes = p
	}

	legs := make([]model.RoadLeg, 0, len(nodes)+1)
	legs = append(legs, model.RoadLeg{From: es.Edge.From, To: es.Edge.To, Key: es.Edge.Key, P: 1 - es.P})

	for i := 0; i < len(nodes)-1; i++ {
		u := model.NodeID(nodes[i].ID())
		v := model.NodeID(nodes[i+1].ID())
		e, ok := g.bestEdge(u, v)
		if !ok {
			return Plan{}, simerr.ErrNoRoadRoute
		}
		legs = append(legs, model.RoadLeg{From: e.From, To: e.To, Key: e.Key, P: 1.0})
	}

	legs = append(legs, model.RoadLeg{From: ee.Edge.From, To: ee.Edge.To, Key: ee.Edge.Key, P: ee.P})
	return Plan{Legs: legs}, nil
}
