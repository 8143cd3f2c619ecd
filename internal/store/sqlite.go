package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/roadveh"
)

// SQLite is a database/sql-backed Storage, grounded on
// tidbyt-gtfs/storage/sqlite.go's driver-only import and
// CREATE-TABLE-IF-NOT-EXISTS-in-Exec setup.
type SQLite struct {
	db *sql.DB
}

// SQLiteConfig selects where the database lives; the zero value runs
// entirely in memory.
type SQLiteConfig struct {
	OnDisk bool
	Path   string
}

// NewSQLite opens (creating if needed) a SQLite-backed store.
func NewSQLite(cfg SQLiteConfig) (*SQLite, error) {
	source := ":memory:"
	if cfg.OnDisk {
		source = cfg.Path
	}
	db, err := sql.Open("sqlite3", source)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS agent_trips (
    agent_id TEXT NOT NULL,
    start_lat REAL NOT NULL,
    start_lon REAL NOT NULL,
    end_lat REAL NOT NULL,
    end_lon REAL NOT NULL,
    stop_type TEXT NOT NULL,
    dep_s INTEGER NOT NULL,
    arr_s INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS road_capacities (
    edge_key INTEGER NOT NULL,
    occupancy INTEGER NOT NULL,
    time_s INTEGER NOT NULL
);
`)
	if err != nil {
		return nil, fmt.Errorf("creating sqlite schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) RecordOccupancy(ev roadveh.OccupancyEvent) {
	_, _ = s.db.Exec(`INSERT INTO road_capacities (edge_key, occupancy, time_s) VALUES (?, ?, ?)`,
		int64(ev.EdgeKey), ev.Occupancy, ev.Time)
}

func (s *SQLite) RecordAgentTrip(t AgentTrip) error {
	_, err := s.db.Exec(`
INSERT INTO agent_trips (agent_id, start_lat, start_lon, end_lat, end_lon, stop_type, dep_s, arr_s)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.AgentID, t.StartLat, t.StartLon, t.EndLat, t.EndLon, t.StopType, t.DepartureS, t.ArrivalS)
	return err
}

func (s *SQLite) AgentTrips() ([]AgentTrip, error) {
	rows, err := s.db.Query(`SELECT agent_id, start_lat, start_lon, end_lat, end_lon, stop_type, dep_s, arr_s FROM agent_trips`)
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

func (s *SQLite) RoadCapacities() (map[model.EdgeKey][]OccupancySample, error) {
	rows, err := s.db.Query(`SELECT edge_key, occupancy, time_s FROM road_capacities ORDER BY edge_key, time_s`)
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

func (s *SQLite) Close() error { return s.db.Close() }
