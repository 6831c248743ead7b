package soundingdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/seafloor.report/internal/sonar"
	"github.com/banshee-data/seafloor.report/internal/sonar/pipeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "soundings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testDataset() *sonar.SoundingDataset {
	return &sonar.SoundingDataset{
		Lat:         []float64{10.0, 10.0001, 10.001},
		Lon:         []float64{120.0, 120.0001, 120.001},
		Depth:       []float64{100, 101, 102},
		Backscatter: []float64{-20, -21, -22},
		Angle:       []float64{0, 5.7, -5.7},
		Index: sonar.PingIndex{
			BeamCount:   []int32{2, 1},
			StartOffset: []int32{0, 2},
			PingTime:    []float64{1526342400, 1526342401},
		},
	}
}

func testStats(runID string) *pipeline.RunStats {
	return &pipeline.RunStats{
		RunID:           runID,
		NavigationFixes: 2,
		PingsRead:       3,
		PingsProcessed:  2,
		PingsSkipped:    1,
		Soundings:       3,
		Elapsed:         1500 * time.Millisecond,
	}
}

func TestOpenAppliesMigrations(t *testing.T) {
	s := openTestStore(t)

	// Reopening an already-migrated database must tolerate ErrNoChange.
	path := filepath.Join(t.TempDir(), "reopen.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())
	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())

	var n int
	err = s.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInsertRunRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ds := testDataset()
	require.NoError(t, ds.Validate())

	require.NoError(t, s.InsertRun("survey.all", testStats("run-1"), ds))

	n, err := s.CountSoundings("run-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var pings int
	require.NoError(t, s.QueryRow(
		`SELECT COUNT(*) FROM pings WHERE run_id = ?`, "run-1").Scan(&pings))
	assert.Equal(t, 2, pings)

	var lat, depth float64
	require.NoError(t, s.QueryRow(`
		SELECT lat, depth FROM soundings
		WHERE run_id = ? AND ping_idx = 1 AND beam_idx = 0`, "run-1").Scan(&lat, &depth))
	assert.InDelta(t, 10.001, lat, 1e-9)
	assert.InDelta(t, 102, depth, 1e-9)
}

func TestInsertRunDuplicateRolledBack(t *testing.T) {
	s := openTestStore(t)
	ds := testDataset()

	require.NoError(t, s.InsertRun("survey.all", testStats("run-1"), ds))
	err := s.InsertRun("survey.all", testStats("run-1"), ds)
	require.Error(t, err)

	// The failed insert must not leave partial rows behind.
	n, err := s.CountSoundings("run-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)
	ds := testDataset()

	require.NoError(t, s.InsertRun("a.all", testStats("run-a"), ds))
	require.NoError(t, s.InsertRun("b.all", testStats("run-b"), ds))

	runs, err := s.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	ids := []string{runs[0].RunID, runs[1].RunID}
	assert.ElementsMatch(t, []string{"run-a", "run-b"}, ids)
	for _, r := range runs {
		assert.Equal(t, 2, r.PingsProcessed)
		assert.Equal(t, 1, r.PingsSkipped)
		assert.Equal(t, 3, r.Soundings)
	}
}
