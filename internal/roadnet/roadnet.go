// Package roadnet ingests the OSM-derived road network of spec.md §6 into
// an internal/road.Network: JSON node/edge lists with the imputation rules
// spec.md spells out (missing maxspeed filled by per-highway-class mean,
// lane count normalization, averaged/summed list-valued attributes).
//
// Grounded on original_source/road/map.py's _prepare_network (the same
// lane-summing and missing-maxspeed imputation pass, generalized from
// osmnx's in-memory graph to a plain JSON ingestion shim — this is
// explicitly an out-of-scope external collaborator per spec.md §1, wired
// only far enough to hand a populated Network to internal/road).
package roadnet

import (
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/road"
	"github.com/transitlab/citysim/internal/simerr"
)

type rawNode struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type rawEdge struct {
	From     int64             `json:"from"`
	To       int64             `json:"to"`
	Key      int64             `json:"key"`
	LengthM  float64           `json:"length"`
	MaxSpeed json.RawMessage   `json:"maxspeed"`
	Lanes    json.RawMessage   `json:"lanes"`
	Highway  json.RawMessage   `json:"highway"`
	OneWay   bool              `json:"oneway"`
	Capacity float64           `json:"capacity"`
	Geometry [][2]float64      `json:"geometry"`
}

type rawGraph struct {
	Nodes []rawNode `json:"nodes"`
	Edges []rawEdge `json:"edges"`
}

// Load reads an OSM-derived road network from the JSON document at path
// and builds a ready-to-query internal/road.Network (BuildIndex already
// called).
func Load(path string, cfg config.Config) (*road.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(simerr.ErrGTFSInvalid, "opening road network %s: %v", path, err)
	}
	defer f.Close()
	return LoadFrom(f, cfg)
}

// LoadFrom builds a Network from r, a JSON document shaped as
// {"nodes": [...], "edges": [...]}.
func LoadFrom(r io.Reader, cfg config.Config) (*road.Network, error) {
	var g rawGraph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, errors.Wrap(simerr.ErrGTFSInvalid, "decoding road network: "+err.Error())
	}

	net := road.NewNetwork(cfg)
	for _, n := range g.Nodes {
		net.AddNode(model.NodeID(n.ID), model.Point{Lat: n.Lat, Lon: n.Lon})
	}

	highways := make([]string, len(g.Edges))
	speedsKmh := make([]float64, len(g.Edges))
	haveSpeed := make([]bool, len(g.Edges))
	impute := make(map[string][]float64)

	for i, e := range g.Edges {
		hw := parseHighway(e.Highway)
		highways[i] = hw
		if len(e.MaxSpeed) > 0 {
			if kmh, ok := parseSpeed(e.MaxSpeed); ok {
				speedsKmh[i] = kmh
				haveSpeed[i] = true
				impute[hw] = append(impute[hw], kmh)
			}
		}
	}

	for i, e := range g.Edges {
		lanes := parseLanes(e.Lanes)

		var kmh float64
		if haveSpeed[i] {
			kmh = speedsKmh[i]
		} else if peers := impute[highways[i]]; len(peers) > 0 {
			kmh = mean(peers)
		} else {
			kmh = cfg.DefaultSpeedFor(highways[i])
		}

		geom := make([]model.Point, len(e.Geometry))
		for j, p := range e.Geometry {
			geom[j] = model.Point{Lat: p[0], Lon: p[1]}
		}

		length := e.LengthM
		capacity := e.Capacity
		if capacity <= 0 {
			capacity = road.CapacityForLength(length)
		}

		net.AddEdge(&model.RoadEdge{
			From:     model.NodeID(e.From),
			To:       model.NodeID(e.To),
			Key:      model.EdgeKey(e.Key),
			LengthM:  length,
			MaxSpeed: kmh * 1000 / 3600,
			Lanes:    lanes,
			Capacity: capacity,
			Geometry: geom,
			Highway:  highways[i],
		})

		if !e.OneWay {
			reverseGeom := make([]model.Point, len(geom))
			for j := range geom {
				reverseGeom[j] = geom[len(geom)-1-j]
			}
			net.AddEdge(&model.RoadEdge{
				From:     model.NodeID(e.To),
				To:       model.NodeID(e.From),
				Key:      model.EdgeKey(-e.Key),
				LengthM:  length,
				MaxSpeed: kmh * 1000 / 3600,
				Lanes:    lanes,
				Capacity: capacity,
				Geometry: reverseGeom,
				Highway:  highways[i],
			})
		}
	}

	net.BuildIndex()
	return net, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// parseLanes normalizes spec.md §6's lane-count rules: missing defaults to
// 1, -1 is treated as 1, and a list of lane counts is summed.
func parseLanes(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 1
	}
	var asInt int
	if err := json.Unmarshal(raw, &asInt); err == nil {
		if asInt < 0 {
			return 1
		}
		if asInt == 0 {
			return 1
		}
		return asInt
	}
	var asStr string
	if err := json.Unmarshal(raw, &asStr); err == nil {
		if n, err := strconv.Atoi(asStr); err == nil {
			if n <= 0 {
				return 1
			}
			return n
		}
		return 1
	}
	var asList []json.RawMessage
	if err := json.Unmarshal(raw, &asList); err == nil {
		total := 0
		any := false
		for _, item := range asList {
			n := parseLanes(item)
			total += n
			any = true
		}
		if any {
			return total
		}
	}
	return 1
}

// parseSpeed returns a single km/h value from a maxspeed field that may be
// a bare number, a numeric string, or a list of such values averaged
// together per spec.md §6.
func parseSpeed(raw json.RawMessage) (float64, bool) {
	var asNum float64
	if err := json.Unmarshal(raw, &asNum); err == nil {
		return asNum, true
	}
	var asStr string
	if err := json.Unmarshal(raw, &asStr); err == nil {
		if v, err := strconv.ParseFloat(asStr, 64); err == nil {
			return v, true
		}
		return 0, false
	}
	var asList []json.RawMessage
	if err := json.Unmarshal(raw, &asList); err == nil {
		var vals []float64
		for _, item := range asList {
			if v, ok := parseSpeed(item); ok {
				vals = append(vals, v)
			}
		}
		if len(vals) > 0 {
			return mean(vals), true
		}
	}
	return 0, false
}

func parseHighway(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "unclassified"
	}
	var asStr string
	if err := json.Unmarshal(raw, &asStr); err == nil {
		return asStr
	}
	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil && len(asList) > 0 {
		return asList[0]
	}
	return "unclassified"
}
