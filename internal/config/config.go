// Package config holds the simulation's calibration constants as a single
// immutable value, injected into constructors rather than read from package
// globals.
package config

import "time"

// Config carries every tunable named in spec.md's "Configuration" section.
type Config struct {
	// BaseTransferTime is the lower-bound overhead, in seconds, for
	// changing from one timetabled trip to another at a shared stop.
	BaseTransferTime int

	// FootpathDeltaBase is the fixed overhead, in seconds, added to every
	// precomputed footpath's walking time.
	FootpathDeltaBase int

	// FootpathSpeedKmh is the assumed walking speed used to turn a
	// great-circle distance into a footpath walk time.
	FootpathSpeedKmh float64

	// FootpathDeltaMax discards any footpath whose total walk time
	// exceeds this many seconds.
	FootpathDeltaMax int

	// ClosestIndirectTransfers bounds how many footpaths are kept per
	// stop (the k nearest neighbours).
	ClosestIndirectTransfers int

	// SpeedFactor scales every road travel-time computation. Must be
	// calibrated against the transit schedule when buses share the road
	// network.
	SpeedFactor float64

	// AcceptableDelayMargin is the debug warning threshold, in seconds,
	// for a bus's actual vs. scheduled inter-stop travel time.
	AcceptableDelayMargin time.Duration

	// DefaultRoadSpeeds maps an OSM highway class to a default speed in
	// km/h, used when a road segment has no maxspeed and no same-class
	// peers to average.
	DefaultRoadSpeeds map[string]float64

	// BoundRadius is the initial bounding-box half-width (in degrees)
	// used when searching the spatial index for nearby edges/stops; it
	// doubles on an empty result.
	BoundRadius float64

	// NearestStopCandidates (k) bounds how many candidate stops the
	// multimodal planner considers per endpoint.
	NearestStopCandidates int

	// RecordVehicleTraces turns on the per-leg debug trace described in
	// SPEC_FULL.md's supplemented features. Off by default.
	RecordVehicleTraces bool
}

// Default returns the baseline configuration, matching the constants in
// the reference implementation's config module.
func Default() Config {
	return Config{
		BaseTransferTime:         120,
		FootpathDeltaBase:        120,
		FootpathSpeedKmh:         5,
		FootpathDeltaMax:         420,
		ClosestIndirectTransfers: 5,
		SpeedFactor:              1,
		AcceptableDelayMargin:    3 * time.Minute,
		DefaultRoadSpeeds: map[string]float64{
			"motorway":       100,
			"motorway_link":  70,
			"trunk":          85,
			"trunk_link":     60,
			"primary":        65,
			"primary_link":   50,
			"secondary":      55,
			"secondary_link": 40,
			"tertiary":       45,
			"tertiary_link":  35,
			"unclassified":   35,
			"residential":    30,
			"living_street":  15,
			"service":        20,
		},
		BoundRadius:           0.001,
		NearestStopCandidates: 5,
		RecordVehicleTraces:   false,
	}
}

// DefaultSpeedFor returns the configured default speed (km/h) for a highway
// class, falling back to a generic urban default when the class is unknown.
func (c Config) DefaultSpeedFor(highway string) float64 {
	if v, ok := c.DefaultRoadSpeeds[highway]; ok {
		return v
	}
	return 30
}
