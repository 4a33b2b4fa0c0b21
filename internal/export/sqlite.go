package export

import (
	"database/sql"
	"time"

	"github.com/LdDl/quadtrack/qtrack"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS quadrant_runs (
	run_id         TEXT PRIMARY KEY,
	input          TEXT NOT NULL,
	started_at_ns  INTEGER NOT NULL,
	stride         INTEGER NOT NULL,
	fps            REAL NOT NULL,
	frames_read    INTEGER NOT NULL,
	frames_sampled INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS quadrant_events (
	run_id   TEXT NOT NULL REFERENCES quadrant_runs(run_id),
	seq      INTEGER NOT NULL,
	time_s   REAL NOT NULL,
	quadrant INTEGER NOT NULL,
	colour   TEXT NOT NULL,
	type     TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// SQLiteStore persists event logs, one row per event keyed by run ID and position in the log.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) database at path and makes sure tables exist
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open sqlite '%s'", path)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "Can't create schema")
	}
	return &SQLiteStore{db: db}, nil
}

// Write inserts run and its events in a single transaction
func (s *SQLiteStore) Write(info RunInfo, events []qtrack.Event) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "Can't begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO quadrant_runs (
			run_id, input, started_at_ns, stride, fps, frames_read, frames_sampled
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, info.RunID.String(), info.Input, info.StartedAt.UnixNano(), info.Stride, info.FPS, info.FramesRead, info.FramesSampled)
	if err != nil {
		return errors.Wrapf(err, "Can't insert run %s", info.RunID)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO quadrant_events (run_id, seq, time_s, quadrant, colour, type)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.Wrap(err, "Can't prepare event insert")
	}
	defer stmt.Close()
	for i, event := range events {
		_, err = stmt.Exec(info.RunID.String(), i, event.Time, int(event.Quadrant), event.Color, event.Kind.String())
		if err != nil {
			return errors.Wrapf(err, "Can't insert event %d", i)
		}
	}
	return errors.Wrap(tx.Commit(), "Can't commit events")
}

// StoredRun is a run read back from the database
type StoredRun struct {
	RunInfo
	Events []qtrack.Event
}

// Load reads a run and its events in log order
func (s *SQLiteStore) Load(runID string) (*StoredRun, error) {
	run := StoredRun{}
	var id string
	var startedAtNs int64
	err := s.db.QueryRow(`
		SELECT run_id, input, started_at_ns, stride, fps, frames_read, frames_sampled
		FROM quadrant_runs WHERE run_id = ?
	`, runID).Scan(&id, &run.Input, &startedAtNs, &run.Stride, &run.FPS, &run.FramesRead, &run.FramesSampled)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't load run %s", runID)
	}
	run.StartedAt = time.Unix(0, startedAtNs)
	if err := run.RunID.UnmarshalText([]byte(id)); err != nil {
		return nil, errors.Wrapf(err, "Bad run id '%s'", id)
	}

	rows, err := s.db.Query(`
		SELECT time_s, quadrant, colour, type FROM quadrant_events
		WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't load events of run %s", runID)
	}
	defer rows.Close()
	for rows.Next() {
		var event qtrack.Event
		var quadrant int
		var kind string
		if err := rows.Scan(&event.Time, &quadrant, &event.Color, &kind); err != nil {
			return nil, errors.Wrap(err, "Can't scan event")
		}
		event.Quadrant = qtrack.Quadrant(quadrant)
		if kind == qtrack.EventExit.String() {
			event.Kind = qtrack.EventExit
		}
		run.Events = append(run.Events, event)
	}
	return &run, errors.Wrap(rows.Err(), "Can't iterate events")
}

// Close closes database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
