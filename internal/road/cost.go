package road

import (
	"math"

	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/model"
)

// edgeCost implements spec.md §4.3's edge travel-time function: base free-flow
// time scaled by a congestion multiplier derived from per-lane occupancy
// against capacity.
//
// The traversal protocol computes this cost (step 3) before incrementing
// the edge's occupancy (step 4), but spec.md's worked example (§8 scenario
// 5: a single vehicle on an empty 1-lane, capacity-1000 edge costs
// 100 * (1 + sqrt(1/1000))) only holds if the formula's occupancy counts
// the entering vehicle itself. So this function takes the edge's current
// (pre-increment) occupancy and evaluates the formula as if it already
// included this entry: per_lane_occ = 1 + occupancy/lanes, which is
// `1 + (occupancy+1-1)/lanes` simplified.
func edgeCost(e *model.RoadEdge, cfg config.Config) float64 {
	if e.MaxSpeed <= 0 {
		return math.Inf(1)
	}
	baseTime := e.LengthM / e.MaxSpeed

	lanes := e.Lanes
	if lanes < 1 {
		lanes = 1
	}
	perLaneOcc := 1 + float64(e.Occupancy/lanes)

	capacity := e.Capacity
	if capacity <= 0 {
		capacity = CapacityForLength(e.LengthM)
	}

	multiplier := 1 + math.Sqrt((perLaneOcc*perLaneOcc)/capacity)

	speedFactor := cfg.SpeedFactor
	if speedFactor <= 0 {
		speedFactor = 1
	}
	return (baseTime * multiplier) / speedFactor
}

// Cost exposes edgeCost to internal/roadveh, which needs to price a leg at
// the moment a vehicle commits to entering it.
func Cost(e *model.RoadEdge, cfg config.Config) float64 {
	return edgeCost(e, cfg)
}
