package gtfsbuild

import "github.com/transitlab/citysim/internal/gtfsfeed"

// span is a compressed, absolute-time frequency span for one trip template.
type span struct {
	startS, endS, headwayS int
}

// compressFreqSpans merges adjacent frequency rows for the same trip that
// share a headway and leave no gap, per
// original_source/gtfs/freqs.py's compress_frequencies: two rows merge when
// they have the same headway, the next starts within a second of the
// previous ending, and the next start lines up on the previous span's
// headway grid.
func compressFreqSpans(rows []gtfsfeed.FrequencyRecord) ([]span, error) {
	var spans []span
	for _, r := range rows {
		start, err := gtfsfeed.ParseTimeOfDay(r.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := gtfsfeed.ParseTimeOfDay(r.EndTime)
		if err != nil {
			return nil, err
		}

		if len(spans) == 0 {
			spans = append(spans, span{start, end, r.HeadwaySecs})
			continue
		}
		prev := &spans[len(spans)-1]
		if prev.headwayS == r.HeadwaySecs &&
			start-prev.endS <= 1 &&
			(start-prev.startS)%r.HeadwaySecs == 0 {
			prev.endS = end
		} else {
			spans = append(spans, span{start, end, r.HeadwaySecs})
		}
	}
	return spans, nil
}

// nVehicles counts the departing vehicles for one span, per
// original_source/gtfs/freqs.py's n_vehicles. The span's end counts as a
// departure when it falls on the headway grid (0..1200 at 600 s gives 3).
func nVehicles(s span) int {
	if s.headwayS <= 0 {
		return 0
	}
	return (s.endS-s.startS)/s.headwayS + 1
}

// vehicleStarts enumerates every vehicle departure time a span implies.
func vehicleStarts(s span) []int {
	n := nVehicles(s)
	starts := make([]int, n)
	for i := 0; i < n; i++ {
		starts[i] = s.startS + i*s.headwayS
	}
	return starts
}
