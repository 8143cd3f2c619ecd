// Package events implements the simulation kernel's event queue of
// spec.md §4.4: a min-heap ordered by absolute time, ties broken FIFO. An
// Action is invoked with its firing time and returns the (possibly empty)
// list of relative offsets and successor actions to schedule next.
//
// Grounded on jwmdev-brt08/driver/batch.go's eventPQ (container/heap.Interface
// over a time-ordered slice) and original_source/events.py's uuid-keyed heap
// entries, which this generalizes from a bus-arrival-only queue into one
// that holds any Action.
package events

import (
	"container/heap"

	"github.com/google/uuid"
)

// Action is invoked once, at its firing time, and returns the events it
// schedules next. The kernel adds each returned Delay to the firing time
// before pushing the successor.
type Action func(time int) []Next

// Next is one successor an Action schedules: fire Action again (or a
// different one) Delay seconds after the current event's time.
type Next struct {
	Delay  int
	Action Action
}

// entry is one pending event: an absolute fire time, the action to invoke,
// and a uuid plus monotonic sequence number used only to break ties FIFO.
type entry struct {
	time     int
	action   Action
	id       uuid.UUID
	sequence uint64
}

// Queue is a min-heap of pending events. The zero Queue is not usable;
// construct with New.
type Queue struct {
	h    *entryHeap
	next uint64
}

// New returns an empty event queue.
func New() *Queue {
	h := &entryHeap{}
	heap.Init(h)
	return &Queue{h: h}
}

// Push schedules action to fire at the given absolute time.
func (q *Queue) Push(time int, action Action) uuid.UUID {
	id := uuid.New()
	heap.Push(q.h, entry{time: time, action: action, id: id, sequence: q.next})
	q.next++
	return id
}

// Len reports how many events are pending.
func (q *Queue) Len() int { return q.h.Len() }

// Pop removes and returns the earliest-firing event. It panics if the
// queue is empty; callers should check Len first.
func (q *Queue) Pop() (time int, action Action) {
	e := heap.Pop(q.h).(entry)
	return e.time, e.action
}

// entryHeap is the container/heap.Interface implementation backing Queue,
// following the same shape as jwmdev-brt08's eventPQ.
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].sequence < h[j].sequence
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)   { *h = append(*h, x.(entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
