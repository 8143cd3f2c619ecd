package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOrdersByTime(t *testing.T) {
	q := New()
	var order []int
	record := func(n int) Action {
		return func(time int) []Next {
			order = append(order, n)
			return nil
		}
	}
	q.Push(30, record(3))
	q.Push(10, record(1))
	q.Push(20, record(2))

	for q.Len() > 0 {
		time, action := q.Pop()
		action(time)
	}
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestQueueFIFOOnTies(t *testing.T) {
	q := New()
	var order []int
	record := func(n int) Action {
		return func(time int) []Next {
			order = append(order, n)
			return nil
		}
	}
	q.Push(100, record(1))
	q.Push(100, record(2))
	q.Push(100, record(3))

	for q.Len() > 0 {
		time, action := q.Pop()
		action(time)
	}
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestQueueEmptyPanics(t *testing.T) {
	q := New()
	assert.Equal(t, 0, q.Len())
	assert.Panics(t, func() { q.Pop() })
}

func TestQueueSuccessorsRescheduleRelativeToFiringTime(t *testing.T) {
	q := New()
	fires := 0
	var step Action
	step = func(time int) []Next {
		fires++
		if fires < 3 {
			return []Next{{Delay: 5, Action: step}}
		}
		return nil
	}
	q.Push(10, step)

	var times []int
	for q.Len() > 0 {
		time, action := q.Pop()
		times = append(times, time)
		for _, n := range action(time) {
			q.Push(time+n.Delay, n.Action)
		}
	}
	require.Equal(t, []int{10, 15, 20}, times)
	assert.Equal(t, 3, fires)
}
