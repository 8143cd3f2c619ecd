package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/roadveh"
)

// Postgres is a database/sql-backed Storage using lib/pq, grounded on
// tidbyt-gtfs/storage/postgres.go's NewPSQLStorage(connStr, clearDB) shape.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection to connStr and ensures the agent_trips and
// road_capacities tables exist. When clearDB is true, both tables are
// dropped first, matching tidbyt-gtfs/storage/postgres.go's test-fixture
// reset path.
func NewPostgres(connStr string, clearDB bool) (*Postgres, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if clearDB {
		if _, err := db.Exec(`DROP TABLE IF EXISTS agent_trips, road_capacities`); err != nil {
			return nil, fmt.Errorf("clearing postgres schema: %w", err)
		}
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS agent_trips (
    agent_id TEXT NOT NULL,
    start_lat DOUBLE PRECISION NOT NULL,
    start_lon DOUBLE PRECISION NOT NULL,
    end_lat DOUBLE PRECISION NOT NULL,
    end_lon DOUBLE PRECISION NOT NULL,
    stop_type TEXT NOT NULL,
    dep_s INTEGER NOT NULL,
    arr_s INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS road_capacities (
    edge_key BIGINT NOT NULL,
    occupancy INTEGER NOT NULL,
    time_s INTEGER NOT NULL
);
`)
	if err != nil {
		return nil, fmt.Errorf("creating postgres schema: %w", err)
	}

	return &Postgres{db: db}, nil
}

func (p *Postgres) RecordOccupancy(ev roadveh.OccupancyEvent) {
	_, _ = p.db.Exec(`INSERT INTO road_capacities (edge_key, occupancy, time_s) VALUES ($1, $2, $3)`,
		int64(ev.EdgeKey), ev.Occupancy, ev.Time)
}

func (p *Postgres) RecordAgentTrip(t AgentTrip) error {
	_, err := p.db.Exec(`
INSERT INTO agent_trips (agent_id, start_lat, start_lon, end_lat, end_lon, stop_type, dep_s, arr_s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.AgentID, t.StartLat, t.StartLon, t.EndLat, t.EndLon, t.StopType, t.DepartureS, t.ArrivalS)
	return err
}

func (p *Postgres) AgentTrips() ([]AgentTrip, error) {
	rows, err := p.db.Query(`SELECT agent_id, start_lat, start_lon, end_lat, end_lon, stop_type, dep_s, arr_s FROM agent_trips`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AgentTrip
	for rows.Next() {
		var t AgentTrip
		if err := rows.Scan(&t.AgentID, &t.StartLat, &t.StartLon, &t.EndLat, &t.EndLon, &t.StopType, &t.DepartureS, &t.ArrivalS); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (p *Postgres) RoadCapacities() (map[model.EdgeKey][]OccupancySample, error) {
	rows, err := p.db.Query(`SELECT edge_key, occupancy, time_s FROM road_capacities ORDER BY edge_key, time_s`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.EdgeKey][]OccupancySample)
	for rows.Next() {
		var key int64
		var sample OccupancySample
		if err := rows.Scan(&key, &sample.Occupancy, &sample.TimeS); err != nil {
			return nil, err
		}
		out[model.EdgeKey(key)] = append(out[model.EdgeKey(key)], sample)
	}
	return out, rows.Err()
}

func (p *Postgres) Close() error { return p.db.Close() }
