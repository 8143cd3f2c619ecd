package roadnet

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/transitlab/citysim/internal/geoindex"
	"github.com/transitlab/citysim/internal/simerr"
)

// RecomputeLengths rewrites the "length" field of every edge in the road
// network JSON file at path, summing haversine segment distances across
// each edge's geometry polyline instead of trusting whatever length the
// OSM extract shipped with.
//
// Adapted from tools/recompute_distances.go, which walked a single BRT
// route's stop list (plus hand-placed "pin" waypoints between stops) and
// resummed haversine legs into distance_next_stop/total_distance_km. This
// generalizes that same leg-summing idea from one corridor's stop-to-pin
// chain to an arbitrary edge's multi-point geometry, and reuses
// geoindex.HaversineM instead of a second hand-rolled haversine.
func RecomputeLengths(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(simerr.ErrGTFSInvalid, "reading road network %s: %v", path, err)
	}
	var g rawGraph
	if err := json.Unmarshal(b, &g); err != nil {
		return 0, errors.Wrap(simerr.ErrGTFSInvalid, "decoding road network: "+err.Error())
	}

	changed := 0
	for i, e := range g.Edges {
		if len(e.Geometry) < 2 {
			continue
		}
		var sum float64
		for j := 0; j+1 < len(e.Geometry); j++ {
			a, b := e.Geometry[j], e.Geometry[j+1]
			sum += geoindex.HaversineM(a[0], a[1], b[0], b[1])
		}
		if sum != e.LengthM {
			g.Edges[i].LengthM = sum
			changed++
		}
	}

	out, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return 0, errors.Wrap(err, "marshaling recomputed road network")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return 0, errors.Wrapf(simerr.ErrGTFSInvalid, "writing road network %s: %v", path, err)
	}
	return changed, nil
}
