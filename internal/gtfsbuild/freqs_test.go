package gtfsbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitlab/citysim/internal/gtfsfeed"
)

func TestCompressFreqSpansMergesAdjacentSameHeadway(t *testing.T) {
	rows := []gtfsfeed.FrequencyRecord{
		{TripID: "t1", StartTime: "06:00:00", EndTime: "07:00:00", HeadwaySecs: 600},
		{TripID: "t1", StartTime: "07:00:00", EndTime: "08:00:00", HeadwaySecs: 600},
	}
	spans, err := compressFreqSpans(rows)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, 6*3600, spans[0].startS)
	assert.Equal(t, 8*3600, spans[0].endS)
	assert.Equal(t, 600, spans[0].headwayS)
}

func TestCompressFreqSpansKeepsDifferingHeadwaySeparate(t *testing.T) {
	rows := []gtfsfeed.FrequencyRecord{
		{TripID: "t1", StartTime: "06:00:00", EndTime: "07:00:00", HeadwaySecs: 600},
		{TripID: "t1", StartTime: "07:00:00", EndTime: "08:00:00", HeadwaySecs: 300},
	}
	spans, err := compressFreqSpans(rows)
	require.NoError(t, err)
	require.Len(t, spans, 2)
}

func TestVehicleStarts(t *testing.T) {
	s := span{startS: 0, endS: 1200, headwayS: 600}
	starts := vehicleStarts(s)
	assert.Equal(t, []int{0, 600, 1200}, starts)
}

func TestNVehiclesZeroHeadway(t *testing.T) {
	assert.Equal(t, 0, nVehicles(span{startS: 0, endS: 100, headwayS: 0}))
}
