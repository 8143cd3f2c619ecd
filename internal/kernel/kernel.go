// Package kernel drives the discrete-event simulation loop of spec.md
// §4.5: pop the earliest event, invoke its action, push whatever it
// returns, repeat until the queue is empty. There is no global clock
// variable — the popped event's time is the current time.
//
// Grounded on original_source/sim/base.py's run loop and
// jwmdev-brt08/sim/runner.go's event-draining pattern, generalized from a
// bus-only loop to one over internal/events.Action.
package kernel

import (
	"github.com/rs/zerolog"

	"github.com/transitlab/citysim/internal/events"
)

// Kernel owns an event queue and runs it to completion.
type Kernel struct {
	queue *events.Queue
	log   zerolog.Logger

	eventsProcessed int
}

// New builds a Kernel over a fresh, empty event queue.
func New(log zerolog.Logger) *Kernel {
	return &Kernel{queue: events.New(), log: log}
}

// Schedule enqueues action to fire at the given absolute time. Call this
// before Run to seed the simulation; actions may also schedule further
// events via their own return values once Run is underway.
func (k *Kernel) Schedule(time int, action events.Action) {
	k.queue.Push(time, action)
}

// Run drains the event queue to completion.
func (k *Kernel) Run() {
	for k.queue.Len() > 0 {
		t, action := k.queue.Pop()
		k.eventsProcessed++
		for _, next := range action(t) {
			k.queue.Push(t+next.Delay, next.Action)
		}
	}
	k.log.Debug().Int("events_processed", k.eventsProcessed).Msg("kernel drained")
}

// EventsProcessed reports how many events this kernel has popped so far,
// for the run summary.
func (k *Kernel) EventsProcessed() int { return k.eventsProcessed }
