package gtfsbuild

import (
	"time"

	"github.com/pkg/errors"

	"github.com/transitlab/citysim/internal/gtfsfeed"
	"github.com/transitlab/citysim/internal/simerr"
)

// activeServices resolves spec.md §6's calendar/calendar_dates tables into
// the set of service ids operating on date (YYYYMMDD), grounded on
// original_source/gtfs/calendar.py's Calendar.services_for_dt: start from
// the weekday's regular services, then apply that date's calendar_dates
// additions/removals.
func activeServices(f *gtfsfeed.Feed, date string) (map[string]bool, error) {
	day, err := time.Parse("20060102", date)
	if err != nil {
		return nil, errors.Wrapf(simerr.ErrGTFSInvalid, "service date %q: %v", date, err)
	}

	active := make(map[string]bool)
	for _, c := range f.Calendar {
		if !calendarCoversDate(c, date) {
			continue
		}
		if weekdayFlag(c, day.Weekday()) {
			active[c.ServiceID] = true
		}
	}

	for _, cd := range f.CalendarDates {
		if cd.Date != date {
			continue
		}
		switch cd.ExceptionType {
		case 1: // added
			active[cd.ServiceID] = true
		case 2: // removed
			delete(active, cd.ServiceID)
		}
	}

	return active, nil
}

func calendarCoversDate(c gtfsfeed.CalendarRecord, date string) bool {
	if c.StartDate != "" && date < c.StartDate {
		return false
	}
	if c.EndDate != "" && date > c.EndDate {
		return false
	}
	return true
}

func weekdayFlag(c gtfsfeed.CalendarRecord, d time.Weekday) bool {
	switch d {
	case time.Monday:
		return c.Monday == 1
	case time.Tuesday:
		return c.Tuesday == 1
	case time.Wednesday:
		return c.Wednesday == 1
	case time.Thursday:
		return c.Thursday == 1
	case time.Friday:
		return c.Friday == 1
	case time.Saturday:
		return c.Saturday == 1
	case time.Sunday:
		return c.Sunday == 1
	}
	return false
}
