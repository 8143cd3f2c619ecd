package kernel

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/transitlab/citysim/internal/events"
)

func TestKernelDrainsUntilEmpty(t *testing.T) {
	k := New(zerolog.Nop())
	var fired []int
	k.Schedule(0, func(time int) []events.Next {
		fired = append(fired, time)
		return []events.Next{{Delay: 10, Action: func(time int) []events.Next {
			fired = append(fired, time)
			return nil
		}}}
	})

	k.Run()
	assert.Equal(t, []int{0, 10}, fired)
	assert.Equal(t, 2, k.EventsProcessed())
}

func TestKernelHasNoGlobalClockBeyondPoppedEvent(t *testing.T) {
	k := New(zerolog.Nop())
	var seen []int
	k.Schedule(100, func(time int) []events.Next {
		seen = append(seen, time)
		return nil
	})
	k.Schedule(50, func(time int) []events.Next {
		seen = append(seen, time)
		return nil
	})
	k.Run()
	assert.Equal(t, []int{50, 100}, seen)
}
