// Package telemetry configures the module's zerolog logger and the few
// debug counters the simulation exposes (bus road-route fallbacks, schedule
// deviations beyond the acceptable delay margin).
package telemetry

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// New builds the root logger, writing human-readable output to w (or
// os.Stderr if w is nil).
func New(w io.Writer, debug bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// Component returns a sub-logger tagged with the given subsystem name, the
// way rideshare-platform's shared logger wrapper tags request-scoped
// loggers.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// Counters tracks the debug counts described in spec.md §4.7: how many
// times a bus fell back to its scheduled time because the road router
// failed, and how many times a bus's actual travel time exceeded the
// acceptable delay margin. The bus driver checks the delay margin only when
// Config.RecordVehicleTraces is set; otherwise that count stays zero.
type Counters struct {
	roadRouteFallbacks int64
	delayMarginBreaches int64
}

func (c *Counters) IncRoadRouteFallback() { atomic.AddInt64(&c.roadRouteFallbacks, 1) }
func (c *Counters) IncDelayMarginBreach() { atomic.AddInt64(&c.delayMarginBreaches, 1) }

func (c *Counters) RoadRouteFallbacks() int64 { return atomic.LoadInt64(&c.roadRouteFallbacks) }
func (c *Counters) DelayMarginBreaches() int64 { return atomic.LoadInt64(&c.delayMarginBreaches) }
