package road

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/simerr"
)

func TestCapacityForLength(t *testing.T) {
	assert.Equal(t, 1850.0, CapacityForLength(1000)) // below table domain, clamped
	assert.Equal(t, 1850.0, CapacityForLength(3000)) // exactly first entry
	assert.InDelta(t, 1887.5, CapacityForLength(3450), 0.01)
	assert.Equal(t, 525.0*6, CapacityForLength(6000)) // beyond table: Webster approximation
}

func TestEdgeCostSingleVehicle(t *testing.T) {
	cfg := config.Default()
	e := &model.RoadEdge{LengthM: 1000, MaxSpeed: 10, Lanes: 1, Capacity: 1000, Occupancy: 0}
	got := edgeCost(e, cfg)
	want := 100 * (1 + math.Sqrt(1.0/1000))
	assert.InDelta(t, want, got, 1e-9)
}

func TestEdgeCostIncreasesWithOccupancy(t *testing.T) {
	cfg := config.Default()
	low := &model.RoadEdge{LengthM: 1000, MaxSpeed: 10, Lanes: 1, Capacity: 1000, Occupancy: 0}
	high := &model.RoadEdge{LengthM: 1000, MaxSpeed: 10, Lanes: 1, Capacity: 1000, Occupancy: 10}
	assert.Less(t, edgeCost(low, cfg), edgeCost(high, cfg))
}

func straightEdge(key model.EdgeKey, from, to model.NodeID, a, b model.Point) *model.RoadEdge {
	return &model.RoadEdge{
		From: from, To: to, Key: key,
		LengthM: 1000, MaxSpeed: 15, Lanes: 1, Capacity: 1000,
		Geometry: []model.Point{a, b},
		Highway:  "residential",
	}
}

func TestRouteStraightLine(t *testing.T) {
	cfg := config.Default()
	net := NewNetwork(cfg)
	a, b, c := model.Point{Lat: 0, Lon: 0}, model.Point{Lat: 0, Lon: 0.01}, model.Point{Lat: 0, Lon: 0.02}
	net.AddNode(1, a)
	net.AddNode(2, b)
	net.AddNode(3, c)
	net.AddEdge(straightEdge(1, 1, 2, a, b))
	net.AddEdge(straightEdge(2, 2, 3, b, c))
	net.BuildIndex()

	r := NewRouter(net, cfg)
	plan, err := r.Route(model.Point{Lat: 0, Lon: 0.0001}, model.Point{Lat: 0, Lon: 0.0199})
	assert.NoError(t, err)
	assert.NotEmpty(t, plan.Legs)

	last := plan.Legs[len(plan.Legs)-1]
	assert.Equal(t, model.EdgeKey(2), last.Key)
}

func TestRouteNoConnectivity(t *testing.T) {
	cfg := config.Default()
	net := NewNetwork(cfg)
	a, b := model.Point{Lat: 0, Lon: 0}, model.Point{Lat: 0, Lon: 0.01}
	far1, far2 := model.Point{Lat: 5, Lon: 5}, model.Point{Lat: 5, Lon: 5.01}
	net.AddNode(1, a)
	net.AddNode(2, b)
	net.AddNode(3, far1)
	net.AddNode(4, far2)
	net.AddEdge(straightEdge(1, 1, 2, a, b))
	net.AddEdge(straightEdge(2, 3, 4, far1, far2))
	net.BuildIndex()

	r := NewRouter(net, cfg)
	_, err := r.Route(model.Point{Lat: 0, Lon: 0.005}, model.Point{Lat: 5, Lon: 5.005})
	assert.ErrorIs(t, err, simerr.ErrNoRoadRoute)
}
