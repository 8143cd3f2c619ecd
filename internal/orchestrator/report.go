package orchestrator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/store"
)

// PrintConsoleReport prints a human-readable end-of-run summary to w,
// in the same section-by-section shape as jwmdev-brt08/sim/report.go's
// PrintConsoleReport, generalized from one bus fleet's distance/cost to
// every agent trip's mode and duration plus the peak occupancy of the five
// busiest road edges.
func PrintConsoleReport(w io.Writer, result RunResult, trips []store.AgentTrip, capacities map[model.EdgeKey][]store.OccupancySample) {
	fmt.Fprintln(w, "=== Simulation Report ===")
	fmt.Fprintf(w, "Transit trips scheduled: %d\n", result.TripsScheduled)
	fmt.Fprintf(w, "Agents planned: %d\n", result.Planned)
	fmt.Fprintf(w, "Agents dropped: %d\n", result.Dropped)
	fmt.Fprintf(w, "Events processed: %d\n", result.EventsProcessed)
	if result.Counters != nil {
		fmt.Fprintf(w, "Bus road-route fallbacks: %d\n", result.Counters.RoadRouteFallbacks())
		fmt.Fprintf(w, "Bus delay-margin breaches: %d\n", result.Counters.DelayMarginBreaches())
	}

	var publicN, privateN int
	var durSum int64
	for _, t := range trips {
		if t.StopType == "public" {
			publicN++
		} else {
			privateN++
		}
		durSum += int64(t.ArrivalS - t.DepartureS)
	}
	avgDur := 0.0
	if len(trips) > 0 {
		avgDur = float64(durSum) / float64(len(trips)) / 60
	}
	fmt.Fprintf(w, "Agent trips recorded: %d (public=%d, private=%d)\n", len(trips), publicN, privateN)
	fmt.Fprintf(w, "Average trip duration: %.2f minutes\n", avgDur)

	busiest := busiestEdges(capacities, 5)
	if len(busiest) > 0 {
		fmt.Fprintln(w, "Busiest road edges (peak occupancy):")
		for _, e := range busiest {
			fmt.Fprintf(w, "  edge %d peak=%d\n", e.key, e.peak)
		}
	}
}

type edgePeak struct {
	key  model.EdgeKey
	peak int
}

func busiestEdges(capacities map[model.EdgeKey][]store.OccupancySample, n int) []edgePeak {
	peaks := make([]edgePeak, 0, len(capacities))
	for key, samples := range capacities {
		peak := 0
		for _, s := range samples {
			if s.Occupancy > peak {
				peak = s.Occupancy
			}
		}
		peaks = append(peaks, edgePeak{key: key, peak: peak})
	}
	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].peak != peaks[j].peak {
			return peaks[i].peak > peaks[j].peak
		}
		return peaks[i].key < peaks[j].key
	})
	if len(peaks) > n {
		peaks = peaks[:n]
	}
	return peaks
}

// WriteCSVReport writes a per-agent-trip CSV report to reportPath (a
// directory gets a timestamped file inside it; a file gets a timestamp
// suffix), matching jwmdev-brt08/sim/report.go's WriteCSVReport naming
// convention.
func WriteCSVReport(reportPath string, trips []store.AgentTrip) (string, error) {
	if reportPath == "" {
		return "", nil
	}
	ts := time.Now().Format("20060102-150405")
	outPath := reportPath
	if fi, err := os.Stat(outPath); err == nil && fi.IsDir() {
		outPath = filepath.Join(outPath, fmt.Sprintf("report-%s.csv", ts))
	} else {
		ext := filepath.Ext(outPath)
		base := outPath[:len(outPath)-len(ext)]
		outPath = fmt.Sprintf("%s-%s%s", base, ts, ext)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fmt.Fprintln(f, "agent_id,stop_type,start_lat,start_lon,end_lat,end_lon,dep_s,arr_s,duration_s")
	for _, t := range trips {
		fmt.Fprintf(f, "%s,%s,%.6f,%.6f,%.6f,%.6f,%d,%d,%d\n",
			t.AgentID, t.StopType, t.StartLat, t.StartLon, t.EndLat, t.EndLon,
			t.DepartureS, t.ArrivalS, t.ArrivalS-t.DepartureS)
	}
	return outPath, nil
}
