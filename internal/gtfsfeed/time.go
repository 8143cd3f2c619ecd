package gtfsfeed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/transitlab/citysim/internal/simerr"
)

// ParseTimeOfDay parses a GTFS H:MM:SS or HH:MM:SS string (possibly past
// 24 hours, e.g. "25:10:00" for a trip that runs past midnight) into
// seconds since the start of the service day.
func ParseTimeOfDay(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, errors.Wrapf(simerr.ErrGTFSInvalid, "time %q: expected H:MM:SS", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, errors.Wrapf(simerr.ErrGTFSInvalid, "time %q: bad hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, errors.Wrapf(simerr.ErrGTFSInvalid, "time %q: bad minute", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil || sec < 0 || sec > 59 {
		return 0, errors.Wrapf(simerr.ErrGTFSInvalid, "time %q: bad second", s)
	}

	return h*3600 + m*60 + sec, nil
}

// FormatTimeOfDay renders seconds-since-service-day-start back into
// HH:MM:SS, always two-digit-padded. Round-tripping a GTFS time string
// through Parse then Format reproduces the original up to zero-padding
// (spec.md §8): "9:03:04" becomes "09:03:04", not byte-identical, but the
// same instant.
func FormatTimeOfDay(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
