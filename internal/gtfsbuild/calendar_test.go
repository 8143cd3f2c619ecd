package gtfsbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitlab/citysim/internal/gtfsfeed"
)

func TestActiveServicesWeekdayCalendar(t *testing.T) {
	f := &gtfsfeed.Feed{
		Calendar: []gtfsfeed.CalendarRecord{
			{ServiceID: "weekday", Monday: 1, Tuesday: 1, Wednesday: 1, Thursday: 1, Friday: 1, StartDate: "20260101", EndDate: "20261231"},
			{ServiceID: "weekend", Saturday: 1, Sunday: 1, StartDate: "20260101", EndDate: "20261231"},
		},
	}

	// 2026-07-27 is a Monday.
	active, err := activeServices(f, "20260727")
	require.NoError(t, err)
	assert.True(t, active["weekday"])
	assert.False(t, active["weekend"])
}

func TestActiveServicesCalendarDatesOverride(t *testing.T) {
	f := &gtfsfeed.Feed{
		Calendar: []gtfsfeed.CalendarRecord{
			{ServiceID: "weekday", Monday: 1, StartDate: "20260101", EndDate: "20261231"},
		},
		CalendarDates: []gtfsfeed.CalendarDateRecord{
			{ServiceID: "weekday", Date: "20260727", ExceptionType: 2},
			{ServiceID: "holiday-extra", Date: "20260727", ExceptionType: 1},
		},
	}

	active, err := activeServices(f, "20260727")
	require.NoError(t, err)
	assert.False(t, active["weekday"])
	assert.True(t, active["holiday-extra"])
}

func TestActiveServicesOutsideDateRange(t *testing.T) {
	f := &gtfsfeed.Feed{
		Calendar: []gtfsfeed.CalendarRecord{
			{ServiceID: "summer-only", Monday: 1, StartDate: "20260601", EndDate: "20260831"},
		},
	}
	active, err := activeServices(f, "20260105")
	require.NoError(t, err)
	assert.False(t, active["summer-only"])
}
