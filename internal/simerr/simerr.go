// Package simerr defines the sentinel error kinds of spec.md §7, so callers
// can recover locally with errors.Is/errors.As instead of string matching.
package simerr

import "errors"

var (
	// ErrNoTransitRoute is returned when the CSA router (or the
	// multimodal planner wrapping it) cannot find any journey.
	ErrNoTransitRoute = errors.New("no transit route")

	// ErrNoRoadRoute is returned when the road router cannot connect two
	// coordinates, e.g. disconnected graph components.
	ErrNoRoadRoute = errors.New("no road route")

	// ErrStopNotFound is returned by the multimodal planner when the stop
	// index yields no candidate stop for either endpoint.
	ErrStopNotFound = errors.New("stop not found")

	// ErrCoordOutOfBounds names the coordinate-outside-the-simulated-area
	// kind. No function in this module returns it: internal/ingest skips
	// such agents with a warning instead.
	ErrCoordOutOfBounds = errors.New("coordinate out of bounds")

	// ErrGTFSInvalid is returned when a GTFS table is missing a required
	// column or contains a malformed value (e.g. an unparsable time).
	ErrGTFSInvalid = errors.New("invalid GTFS data")

	// ErrTimeOutOfDay names the departs-after-the-last-vehicle kind. No
	// function in this module returns it: the CSA router answers such a
	// query with ErrNoTransitRoute.
	ErrTimeOutOfDay = errors.New("departure time out of day")
)
