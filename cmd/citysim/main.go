// Command citysim runs one day's multimodal trip simulation: it ingests a
// GTFS feed and an OSM-derived road network, plans every agent in a
// snapshot file, drives the discrete-event kernel to completion, and
// writes agent trips and road occupancy to the configured store.
//
// Grounded on tidbyt-gtfs/cmd/main.go's cobra root-command-plus-flags
// layout, generalized from a single "departures" subcommand to citysim's
// "run" subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/gtfsbuild"
	"github.com/transitlab/citysim/internal/gtfsfeed"
	"github.com/transitlab/citysim/internal/ingest"
	"github.com/transitlab/citysim/internal/orchestrator"
	"github.com/transitlab/citysim/internal/roadnet"
	"github.com/transitlab/citysim/internal/store"
	"github.com/transitlab/citysim/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:          "citysim",
	Short:        "Multimodal urban trip simulator",
	Long:         "Plans and simulates transit and private-vehicle trips over a GTFS feed and a road network",
	SilenceUsage: true,
}

var runFlags struct {
	gtfsDir      string
	roadNetwork  string
	agents       string
	date         string
	storage      string
	sqlitePath   string
	postgresDSN  string
	clearDB      bool
	report       string
	debug        bool
	boundsMinLat float64
	boundsMaxLat float64
	boundsMinLon float64
	boundsMaxLon float64
	avgSpeedKmh  float64
	publicFrac   float64
	seed         int64
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one day's simulation",
	RunE:  runE,
}

var recomputeFlags struct {
	roadNetwork string
}

var recomputeLengthsCmd = &cobra.Command{
	Use:   "recompute-lengths",
	Short: "Rewrite a road network JSON file's edge lengths from its geometry",
	RunE:  recomputeLengthsE,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.gtfsDir, "gtfs-dir", "", "directory of loose GTFS CSV files (required)")
	f.StringVar(&runFlags.roadNetwork, "road-network", "", "path to the OSM-derived road network JSON (required)")
	f.StringVar(&runFlags.agents, "agents", "", "path to the agent snapshot JSON (required)")
	f.StringVar(&runFlags.date, "date", "", "operating day, YYYYMMDD (required)")
	f.StringVar(&runFlags.storage, "storage", "memory", "output storage backend: memory, sqlite, or postgres")
	f.StringVar(&runFlags.sqlitePath, "sqlite-path", "", "on-disk path for the sqlite backend (empty runs in memory)")
	f.StringVar(&runFlags.postgresDSN, "postgres-dsn", "", "connection string for the postgres backend")
	f.BoolVar(&runFlags.clearDB, "clear-db", false, "drop and recreate tables before running (postgres backend)")
	f.StringVar(&runFlags.report, "report", "", "optional path (file or directory) for a CSV trip report")
	f.BoolVar(&runFlags.debug, "debug", false, "enable debug logging")
	f.Float64Var(&runFlags.boundsMinLat, "bounds-min-lat", -90, "minimum latitude accepted from the agent snapshot")
	f.Float64Var(&runFlags.boundsMaxLat, "bounds-max-lat", 90, "maximum latitude accepted from the agent snapshot")
	f.Float64Var(&runFlags.boundsMinLon, "bounds-min-lon", -180, "minimum longitude accepted from the agent snapshot")
	f.Float64Var(&runFlags.boundsMaxLon, "bounds-max-lon", 180, "maximum longitude accepted from the agent snapshot")
	f.Float64Var(&runFlags.avgSpeedKmh, "avg-road-speed-kmh", 80, "assumed road speed used to back-solve agent departure times")
	f.Float64Var(&runFlags.publicFrac, "public-fraction", 0.5, "probability an agent is assigned the public-transit mode")
	f.Int64Var(&runFlags.seed, "seed", 0, "random seed for agent mode/arrival-time assignment")

	rootCmd.AddCommand(runCmd)

	recomputeLengthsCmd.Flags().StringVar(&recomputeFlags.roadNetwork, "road-network", "", "path to the road network JSON to rewrite in place (required)")
	rootCmd.AddCommand(recomputeLengthsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runE(cmd *cobra.Command, args []string) error {
	if runFlags.gtfsDir == "" || runFlags.roadNetwork == "" || runFlags.agents == "" || runFlags.date == "" {
		return fmt.Errorf("--gtfs-dir, --road-network, --agents and --date are all required")
	}

	log := telemetry.New(os.Stderr, runFlags.debug)
	cfg := config.Default()

	log.Info().Str("dir", runFlags.gtfsDir).Msg("loading GTFS feed")
	feed, err := gtfsfeed.Load(runFlags.gtfsDir)
	if err != nil {
		return fmt.Errorf("loading GTFS feed: %w", err)
	}

	log.Info().Str("date", runFlags.date).Msg("expanding connections")
	connections, err := gtfsbuild.Build(feed, cfg, runFlags.date)
	if err != nil {
		return fmt.Errorf("building connection store: %w", err)
	}
	log.Info().Int("stops", len(connections.Stops)).Int("connections", len(connections.Connections)).
		Int("trips", len(connections.Trips)).Msg("connection store built")

	log.Info().Str("path", runFlags.roadNetwork).Msg("loading road network")
	net, err := roadnet.Load(runFlags.roadNetwork, cfg)
	if err != nil {
		return fmt.Errorf("loading road network: %w", err)
	}
	log.Info().Int("nodes", net.NodeCount()).Int("edges", net.EdgeCount()).Msg("road network built")

	ingestOpts := ingest.DefaultOptions()
	ingestOpts.Bounds = ingest.Bounds{
		MinLat: runFlags.boundsMinLat, MaxLat: runFlags.boundsMaxLat,
		MinLon: runFlags.boundsMinLon, MaxLon: runFlags.boundsMaxLon,
	}
	ingestOpts.AvgRoadSpeedKmh = runFlags.avgSpeedKmh
	ingestOpts.PublicFraction = runFlags.publicFrac
	ingestOpts.Seed = runFlags.seed

	log.Info().Str("path", runFlags.agents).Msg("loading agent snapshot")
	requests, skipped, err := ingest.Load(runFlags.agents, ingestOpts, telemetry.Component(log, "ingest"))
	if err != nil {
		return fmt.Errorf("loading agent snapshot: %w", err)
	}
	log.Info().Int("agents", len(requests)).Int("skipped", skipped).Msg("agent snapshot loaded")

	backend, err := openStorage()
	if err != nil {
		return fmt.Errorf("opening storage backend: %w", err)
	}
	defer backend.Close()

	result, err := orchestrator.Run(orchestrator.Options{
		Connections: connections,
		Net:         net,
		Requests:    requests,
		Config:      cfg,
		Storage:     backend,
		Log:         log,
	})
	if err != nil {
		return fmt.Errorf("running simulation: %w", err)
	}

	trips, err := backend.AgentTrips()
	if err != nil {
		return fmt.Errorf("reading agent trips: %w", err)
	}
	capacities, err := backend.RoadCapacities()
	if err != nil {
		return fmt.Errorf("reading road capacities: %w", err)
	}

	orchestrator.PrintConsoleReport(os.Stdout, result, trips, capacities)

	if runFlags.report != "" {
		path, err := orchestrator.WriteCSVReport(runFlags.report, trips)
		if err != nil {
			return fmt.Errorf("writing CSV report: %w", err)
		}
		log.Info().Str("path", path).Msg("CSV report written")
	}

	return nil
}

func recomputeLengthsE(cmd *cobra.Command, args []string) error {
	if recomputeFlags.roadNetwork == "" {
		return fmt.Errorf("--road-network is required")
	}
	changed, err := roadnet.RecomputeLengths(recomputeFlags.roadNetwork)
	if err != nil {
		return fmt.Errorf("recomputing road network lengths: %w", err)
	}
	fmt.Fprintf(os.Stdout, "recomputed %d edge length(s)\n", changed)
	return nil
}

func openStorage() (store.Storage, error) {
	switch runFlags.storage {
	case "", "memory":
		return store.NewMemory(), nil
	case "sqlite":
		return store.NewSQLite(store.SQLiteConfig{
			OnDisk: runFlags.sqlitePath != "",
			Path:   runFlags.sqlitePath,
		})
	case "postgres":
		if runFlags.postgresDSN == "" {
			return nil, fmt.Errorf("--postgres-dsn is required for the postgres backend")
		}
		return store.NewPostgres(runFlags.postgresDSN, runFlags.clearDB)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", runFlags.storage)
	}
}
