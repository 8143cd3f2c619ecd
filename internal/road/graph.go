package road

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/transitlab/citysim/internal/model"
)

// liveGraph is a graph.Weighted view over a Network whose edge weights are
// recomputed on every call from current occupancy, rather than cached: the
// road graph's congestion state changes between queries (and even mid-query,
// as a vehicle's own action mutates occupancy), so gonum's usual
// weighted-graph types (which fix a weight at edge-insertion time) don't
// fit. Parallel edges between the same pair of nodes collapse to their
// cheapest member for path purposes, per spec.md §4.2's tie-break rule.
type liveGraph struct {
	n *Network
}

func (g *liveGraph) Node(id int64) graph.Node {
	if _, ok := g.n.nodes[model.NodeID(id)]; ok {
		return simple.Node(id)
	}
	return nil
}

func (g *liveGraph) Nodes() graph.Nodes {
	nodes := make([]graph.Node, 0, len(g.n.nodes))
	for id := range g.n.nodes {
		nodes = append(nodes, simple.Node(id))
	}
	return iterator.NewOrderedNodes(nodes)
}

func (g *liveGraph) From(id int64) graph.Nodes {
	keys := g.n.out[model.NodeID(id)]
	seen := make(map[model.NodeID]bool, len(keys))
	nodes := make([]graph.Node, 0, len(keys))
	for _, k := range keys {
		e := g.n.edges[k]
		if !seen[e.To] {
			seen[e.To] = true
			nodes = append(nodes, simple.Node(e.To))
		}
	}
	return iterator.NewOrderedNodes(nodes)
}

func (g *liveGraph) HasEdgeBetween(xid, yid int64) bool {
	_, ok := g.bestEdge(model.NodeID(xid), model.NodeID(yid))
	if ok {
		return true
	}
	_, ok = g.bestEdge(model.NodeID(yid), model.NodeID(xid))
	return ok
}

func (g *liveGraph) Edge(uid, vid int64) graph.Edge {
	return g.WeightedEdge(uid, vid)
}

// bestEdge returns the cheapest-right-now edge from -> to among any
// parallel edges between that pair.
func (g *liveGraph) bestEdge(from, to model.NodeID) (*model.RoadEdge, bool) {
	var best *model.RoadEdge
	bestCost := math.Inf(1)
	for _, k := range g.n.out[from] {
		e := g.n.edges[k]
		if e.To != to {
			continue
		}
		c := edgeCost(e, g.n.cfg)
		if c < bestCost {
			bestCost = c
			best = e
		}
	}
	return best, best != nil
}

func (g *liveGraph) WeightedEdge(uid, vid int64) graph.WeightedEdge {
	e, ok := g.bestEdge(model.NodeID(uid), model.NodeID(vid))
	if !ok {
		return nil
	}
	return roadWeightedEdge{n: g.n, e: e}
}

func (g *liveGraph) Weight(xid, yid int64) (float64, bool) {
	if xid == yid {
		return 0, true
	}
	e, ok := g.bestEdge(model.NodeID(xid), model.NodeID(yid))
	if !ok {
		return math.Inf(1), false
	}
	return edgeCost(e, g.n.cfg), true
}

// roadWeightedEdge adapts a model.RoadEdge to graph.WeightedEdge, weighing
// itself live off the network's congestion function.
type roadWeightedEdge struct {
	n *Network
	e *model.RoadEdge
}

func (w roadWeightedEdge) From() graph.Node { return simple.Node(w.e.From) }
func (w roadWeightedEdge) To() graph.Node   { return simple.Node(w.e.To) }
func (w roadWeightedEdge) ReversedEdge() graph.Edge {
	return roadWeightedEdge{n: w.n, e: &model.RoadEdge{From: w.e.To, To: w.e.From}}
}
func (w roadWeightedEdge) Weight() float64 { return edgeCost(w.e, w.n.cfg) }
