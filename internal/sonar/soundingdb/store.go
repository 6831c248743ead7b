// Package soundingdb persists finished sounding datasets to sqlite so runs
// can be compared and re-queried without reprocessing the source file.
package soundingdb

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/seafloor.report/internal/sonar"
	"github.com/banshee-data/seafloor.report/internal/sonar/pipeline"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the soundings database.
type Store struct {
	*sql.DB
}

// Open opens (or creates) the database at path and applies any pending
// schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return &Store{db}, nil
}

// migrateUp applies all pending migrations from the embedded directory.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// InsertRun stores one run's statistics, ping index, and flattened
// soundings in a single transaction. The dataset must already be finalized
// and valid.
func (s *Store) InsertRun(sourceFile string, stats *pipeline.RunStats, ds *sonar.SoundingDataset) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, source_file, nav_fixes, pings_read, pings_processed, pings_skipped, soundings, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.RunID, sourceFile, stats.NavigationFixes, stats.PingsRead,
		stats.PingsProcessed, stats.PingsSkipped, stats.Soundings,
		stats.Elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	pingStmt, err := tx.Prepare(`
		INSERT INTO pings (run_id, ping_idx, ping_time, beam_count, start_offset)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer pingStmt.Close()

	beamStmt, err := tx.Prepare(`
		INSERT INTO soundings (run_id, ping_idx, beam_idx, lat, lon, depth, backscatter, angle)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer beamStmt.Close()

	for k := 0; k < ds.Index.NumPings(); k++ {
		_, err := pingStmt.Exec(stats.RunID, k, ds.Index.PingTime[k],
			ds.Index.BeamCount[k], ds.Index.StartOffset[k])
		if err != nil {
			return fmt.Errorf("insert ping %d: %w", k, err)
		}

		start, end := ds.PingSlice(k)
		for i := start; i < end; i++ {
			_, err := beamStmt.Exec(stats.RunID, k, i-start,
				ds.Lat[i], ds.Lon[i], ds.Depth[i], ds.Backscatter[i], ds.Angle[i])
			if err != nil {
				return fmt.Errorf("insert sounding %d of ping %d: %w", i-start, k, err)
			}
		}
	}

	return tx.Commit()
}

// CountSoundings returns the number of stored soundings for a run.
func (s *Store) CountSoundings(runID string) (int, error) {
	var n int
	err := s.QueryRow(`SELECT COUNT(*) FROM soundings WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

// RunSummary is one stored run's headline numbers.
type RunSummary struct {
	RunID          string
	SourceFile     string
	PingsProcessed int
	PingsSkipped   int
	Soundings      int
}

// ListRuns returns stored runs, newest first.
func (s *Store) ListRuns() ([]RunSummary, error) {
	rows, err := s.Query(`
		SELECT run_id, source_file, pings_processed, pings_skipped, soundings
		FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.SourceFile, &r.PingsProcessed, &r.PingsSkipped, &r.Soundings); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
