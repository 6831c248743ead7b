package pipeline

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/seafloor.report/internal/sonar"
	"github.com/banshee-data/seafloor.report/internal/sonar/navtrack"
	"github.com/banshee-data/seafloor.report/internal/timeutil"
)

// mockSource is an in-memory Source. Nil record entries stand in for
// datagram types the pipeline does not consume.
type mockSource struct {
	fixes   []sonar.PositionFix
	records []*sonar.PingRecord

	pos     int
	rewound bool
}

func (m *mockSource) LoadNavigation() ([]sonar.PositionFix, error) { return m.fixes, nil }

func (m *mockSource) Rewind() error {
	m.pos = 0
	m.rewound = true
	return nil
}

func (m *mockSource) MoreData() bool { return m.pos < len(m.records) }

func (m *mockSource) NextDepthRecord() (*sonar.PingRecord, error) {
	rec := m.records[m.pos]
	m.pos++
	return rec, nil
}

func (m *mockSource) Close() error { return nil }

// pingAt builds a record whose resolved timestamp is epochSeconds past
// 1970-01-01, keeping test timestamps small and readable.
func pingAt(epochSeconds float64, heading float64, across, along, depth, backscatter []float64) *sonar.PingRecord {
	return &sonar.PingRecord{
		RecordDate:  19700101,
		TimeMillis:  uint32(epochSeconds * 1000),
		Heading:     heading,
		AcrossTrack: across,
		AlongTrack:  along,
		Depth:       depth,
		Backscatter: backscatter,
	}
}

func twoFixes() []sonar.PositionFix {
	return []sonar.PositionFix{
		{Timestamp: 0, Lat: 10.0, Lon: 120.0},
		{Timestamp: 10, Lat: 10.001, Lon: 120.001},
	}
}

func TestProcessorGeoreferencesPing(t *testing.T) {
	track, err := navtrack.NewTrack(twoFixes())
	require.NoError(t, err)

	rec := pingAt(5, 0,
		[]float64{0, 10}, []float64{0, 0}, []float64{100, 100}, []float64{-20, -21})

	result := NewProcessor(track).Process(rec)
	require.False(t, result.Skipped())
	batch := result.Batch
	require.Equal(t, 2, batch.BeamCount())

	// Reference position is the midpoint of the two fixes.
	assert.InDelta(t, 10.0005, batch.Lat[0], 1e-9)
	assert.InDelta(t, 120.0005, batch.Lon[0], 1e-9)

	// Beam angles from across-track offset over vertical depth.
	assert.InDelta(t, 0.0, batch.Angle[0], 1e-12)
	assert.InDelta(t, math.Atan2(10, 100)*180/math.Pi, batch.Angle[1], 1e-12)

	// Beam 1 sits 10 m perpendicular to a north heading: due east of the
	// reference, latitude unchanged.
	assert.InDelta(t, 10.0005, batch.Lat[1], 1e-6)
	assert.Greater(t, batch.Lon[1], batch.Lon[0])
	metres := (batch.Lon[1] - batch.Lon[0]) * 111320 * math.Cos(10.0005*math.Pi/180)
	assert.InDelta(t, 10.0, metres, 0.05)

	// Measurements pass through untouched.
	assert.Equal(t, []float64{100, 100}, batch.Depth)
	assert.Equal(t, []float64{-20, -21}, batch.Backscatter)
}

func TestProcessorSkipsOutsideNavigation(t *testing.T) {
	track, err := navtrack.NewTrack(twoFixes())
	require.NoError(t, err)

	rec := pingAt(11, 0, []float64{0}, []float64{0}, []float64{100}, []float64{-20})
	result := NewProcessor(track).Process(rec)

	assert.True(t, result.Skipped())
	assert.Equal(t, SkipOutsideNavigation, result.Skip)
	assert.Nil(t, result.Batch)
}

func TestRunHappyPath(t *testing.T) {
	src := &mockSource{
		fixes: twoFixes(),
		records: []*sonar.PingRecord{
			pingAt(2, 0, []float64{0, 1, 2}, []float64{0, 0, 0}, []float64{50, 50, 50}, []float64{-20, -20, -20}),
			nil, // non-depth datagram
			pingAt(4, 90, []float64{0, 1, 2, 3, 4}, []float64{0, 0, 0, 0, 0}, []float64{60, 60, 60, 60, 60}, []float64{-21, -21, -21, -21, -21}),
		},
	}

	ds, stats, err := Run(src, Config{Progress: func(int) {}})
	require.NoError(t, err)
	require.NoError(t, ds.Validate())

	assert.True(t, src.rewound)
	assert.Equal(t, 2, stats.NavigationFixes)
	assert.Equal(t, 2, stats.PingsRead)
	assert.Equal(t, 2, stats.PingsProcessed)
	assert.Equal(t, 0, stats.PingsSkipped)
	assert.Equal(t, 8, stats.Soundings)
	assert.NotEmpty(t, stats.RunID)

	assert.Equal(t, []int32{3, 5}, ds.Index.BeamCount)
	assert.Equal(t, []int32{0, 3}, ds.Index.StartOffset)
	assert.Equal(t, []float64{2, 4}, ds.Index.PingTime)
}

func TestRunEmptyNavigation(t *testing.T) {
	src := &mockSource{
		records: []*sonar.PingRecord{
			pingAt(2, 0, []float64{0}, []float64{0}, []float64{50}, []float64{-20}),
		},
	}

	ds, _, err := Run(src, Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sonar.ErrEmptyNavigation))
	assert.Nil(t, ds)
}

func TestRunAllPingsOutsideNavigation(t *testing.T) {
	src := &mockSource{
		fixes: twoFixes(),
		records: []*sonar.PingRecord{
			pingAt(100, 0, []float64{0}, []float64{0}, []float64{50}, []float64{-20}),
			pingAt(200, 0, []float64{0}, []float64{0}, []float64{50}, []float64{-20}),
		},
	}

	ds, stats, err := Run(src, Config{Progress: func(int) {}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sonar.ErrNoValidData))
	assert.Nil(t, ds)
	assert.Equal(t, 2, stats.PingsRead)
	assert.Equal(t, 2, stats.PingsSkipped)
	assert.Equal(t, 0, stats.PingsProcessed)
}

func TestRunSkippedPingNotIndexed(t *testing.T) {
	src := &mockSource{
		fixes: twoFixes(),
		records: []*sonar.PingRecord{
			pingAt(2, 0, []float64{0}, []float64{0}, []float64{50}, []float64{-20}),
			pingAt(99, 0, []float64{0}, []float64{0}, []float64{50}, []float64{-20}), // gap
			pingAt(8, 0, []float64{0}, []float64{0}, []float64{50}, []float64{-20}),
		},
	}

	ds, stats, err := Run(src, Config{Progress: func(int) {}})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.PingsSkipped)
	assert.Equal(t, 2, stats.PingsProcessed)

	// The skipped ping's timestamp never reaches the index.
	assert.Equal(t, []float64{2, 8}, ds.Index.PingTime)
}

func TestRunProgressNotifications(t *testing.T) {
	records := make([]*sonar.PingRecord, 0, 5)
	for i := 0; i < 5; i++ {
		records = append(records, pingAt(float64(i), 0, []float64{0}, []float64{0}, []float64{50}, []float64{-20}))
	}
	src := &mockSource{fixes: twoFixes(), records: records}

	var notified []int
	_, _, err := Run(src, Config{
		ProgressEvery: 2,
		Progress:      func(n int) { notified = append(notified, n) },
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, notified)
}

func TestRunElapsedUsesClock(t *testing.T) {
	clock := timeutil.NewFakeClock(time.Unix(1000, 0))
	src := &mockSource{
		fixes: twoFixes(),
		records: []*sonar.PingRecord{
			pingAt(2, 0, []float64{0}, []float64{0}, []float64{50}, []float64{-20}),
		},
	}

	// Advance the clock from the progress callback, which runs mid-loop.
	_, stats, err := Run(src, Config{
		ProgressEvery: 1,
		Progress:      func(int) { clock.Advance(3 * time.Second) },
		Clock:         clock,
	})
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, stats.Elapsed)
}
