package gtfsfeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := map[string]int{
		"9:03:04":   9*3600 + 3*60 + 4,
		"09:03:04":  9*3600 + 3*60 + 4,
		"00:00:00":  0,
		"25:10:00":  25*3600 + 10*60,
		"100:00:00": 100 * 3600,
	}
	for in, want := range cases {
		got, err := ParseTimeOfDay(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseTimeOfDayInvalid(t *testing.T) {
	for _, s := range []string{"9:3:4x", "09:60:00", "09:00:60", "nope", "09:00"} {
		_, err := ParseTimeOfDay(s)
		assert.Error(t, err, s)
	}
}

func TestFormatTimeOfDayRoundTrip(t *testing.T) {
	for _, in := range []string{"09:03:04", "00:00:00", "25:10:00", "23:59:59"} {
		seconds, err := ParseTimeOfDay(in)
		require.NoError(t, err)
		assert.Equal(t, in, FormatTimeOfDay(seconds))
	}
}

func TestParseTimeOfDayZeroPaddingRoundTrip(t *testing.T) {
	seconds, err := ParseTimeOfDay("9:03:04")
	require.NoError(t, err)
	assert.Equal(t, "09:03:04", FormatTimeOfDay(seconds))
}
