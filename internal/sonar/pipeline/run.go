package pipeline

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/seafloor.report/internal/sonar"
	"github.com/banshee-data/seafloor.report/internal/sonar/navtrack"
	"github.com/banshee-data/seafloor.report/internal/sonar/parse"
	"github.com/banshee-data/seafloor.report/internal/sonar/pointcloud"
	"github.com/banshee-data/seafloor.report/internal/timeutil"
)

// DefaultProgressEvery is the number of depth records between progress
// notifications.
const DefaultProgressEvery = 50

// Source is the decoder surface the pipeline needs from a survey file
// reader. *parse.Reader implements it; tests substitute a mock.
type Source interface {
	// LoadNavigation collects every position fix in the file, in order.
	LoadNavigation() ([]sonar.PositionFix, error)

	// Rewind repositions the source at the start for the depth pass.
	Rewind() error

	// MoreData reports whether another record remains.
	MoreData() bool

	// NextDepthRecord returns the next depth record, or (nil, nil) when
	// the next record is of another datagram type.
	NextDepthRecord() (*sonar.PingRecord, error)

	// Close releases the underlying resource.
	Close() error
}

// Config controls a processing run. The zero value is usable.
type Config struct {
	// ProgressEvery is the number of depth records between progress
	// notifications. Defaults to DefaultProgressEvery.
	ProgressEvery int

	// Progress, when set, replaces the default log-based progress
	// notification. Observational only; never affects output.
	Progress func(pingsRead int)

	// Clock is the time source for elapsed measurement. Defaults to the
	// real clock.
	Clock timeutil.Clock
}

// RunStats summarises one processing run.
type RunStats struct {
	RunID           string        // uuid assigned at run start
	NavigationFixes int           // position fixes loaded in pass one
	PingsRead       int           // depth records decoded in pass two
	PingsProcessed  int           // pings that contributed beams
	PingsSkipped    int           // pings outside the navigation domain
	Soundings       int           // total beams in the final dataset
	Elapsed         time.Duration // wall time for the whole run
}

// Run executes the full two-pass pipeline over an open source: load the
// navigation stream, build the track, rewind, stream depth records through
// the processor into the assembler, and finalize the dataset. The source is
// borrowed, not owned; callers close it (RunFile does so on every path).
//
// Per-ping navigation gaps are counted and skipped, never fatal. Fatal
// outcomes are sonar.ErrEmptyNavigation (pass one) and sonar.ErrNoValidData
// (finalization), both returned with a nil dataset.
func Run(src Source, cfg Config) (*sonar.SoundingDataset, *RunStats, error) {
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = DefaultProgressEvery
	}
	if cfg.Clock == nil {
		cfg.Clock = timeutil.RealClock{}
	}
	progress := cfg.Progress
	if progress == nil {
		progress = func(n int) { log.Printf("processed %d pings", n) }
	}

	stats := &RunStats{RunID: uuid.NewString()}
	start := cfg.Clock.Now()

	fixes, err := src.LoadNavigation()
	if err != nil {
		return nil, stats, fmt.Errorf("load navigation: %w", err)
	}
	stats.NavigationFixes = len(fixes)

	track, err := navtrack.NewTrack(fixes)
	if err != nil {
		return nil, stats, err
	}

	if err := src.Rewind(); err != nil {
		return nil, stats, fmt.Errorf("rewind for depth pass: %w", err)
	}

	proc := NewProcessor(track)
	asm := pointcloud.New()

	for src.MoreData() {
		rec, err := src.NextDepthRecord()
		if err != nil {
			return nil, stats, fmt.Errorf("read depth record: %w", err)
		}
		if rec == nil {
			continue
		}

		stats.PingsRead++
		result := proc.Process(rec)
		if result.Skipped() {
			stats.PingsSkipped++
		} else {
			asm.Add(result.Batch)
			stats.PingsProcessed++
		}

		if stats.PingsRead%cfg.ProgressEvery == 0 {
			progress(stats.PingsRead)
		}
	}

	ds, err := asm.Finalize()
	if err != nil {
		return nil, stats, err
	}

	stats.Soundings = ds.NumSoundings()
	stats.Elapsed = cfg.Clock.Since(start)
	return ds, stats, nil
}

// RunFile opens a survey file and runs the pipeline over it. The file
// handle is released on every exit path, success or failure.
func RunFile(path string, cfg Config) (*sonar.SoundingDataset, *RunStats, error) {
	src, err := parse.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	return Run(src, cfg)
}
