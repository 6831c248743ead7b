// Package pipeline orchestrates the decode → interpolate → geocode →
// flatten processing of one survey file: a navigation preload pass, a
// rewind, then a streaming pass over depth records feeding the point cloud
// assembler.
package pipeline

import (
	"math"

	"github.com/banshee-data/seafloor.report/internal/sonar"
	"github.com/banshee-data/seafloor.report/internal/sonar/geodesy"
	"github.com/banshee-data/seafloor.report/internal/sonar/navtrack"
	"github.com/banshee-data/seafloor.report/internal/sonar/parse"
)

// SkipReason explains why a ping produced no batch.
type SkipReason int

const (
	// SkipNone means the ping was processed and produced a batch.
	SkipNone SkipReason = iota

	// SkipOutsideNavigation means the ping's resolved timestamp fell
	// outside the navigation domain. Expected near file boundaries and
	// across navigation dropouts; the run continues.
	SkipOutsideNavigation
)

// String returns a short label for logging and counters.
func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipOutsideNavigation:
		return "outside_navigation"
	default:
		return "unknown"
	}
}

// PingResult is the tagged outcome of processing one ping: either a
// georeferenced batch, or a skip with its reason. Skips are recoverable and
// counted, never raised as errors.
type PingResult struct {
	Batch *sonar.PingBatch
	Skip  SkipReason
}

// Skipped reports whether the ping contributed no beams.
func (r PingResult) Skipped() bool {
	return r.Skip != SkipNone
}

// Processor georeferences one ping at a time against a fixed navigation
// track. Stateless apart from the track reference; safe to reuse across a
// whole run.
type Processor struct {
	track *navtrack.Track
}

// NewProcessor returns a processor bound to a run's navigation track.
func NewProcessor(track *navtrack.Track) *Processor {
	return &Processor{track: track}
}

// Process georeferences a single ping record:
//
//  1. Resolve the absolute transmit timestamp from the record's date and
//     time-of-day fields.
//  2. Interpolate the vessel reference position at that instant. No
//     position means the whole ping is skipped.
//  3. Compute each beam's pointing angle from its across-track offset and
//     vertical depth. Vertical depth rather than slant range is the
//     intended approximation and is carried through to output as-is.
//  4. Project each beam's (across, along) offsets through the geodetic
//     forward solution: dx is across-track, dy is along-track.
func (p *Processor) Process(rec *sonar.PingRecord) PingResult {
	ts := parse.EpochSeconds(rec.RecordDate, rec.TimeMillis)

	refLat, refLon, ok := p.track.PositionAt(ts)
	if !ok {
		return PingResult{Skip: SkipOutsideNavigation}
	}

	n := rec.BeamCount()
	batch := &sonar.PingBatch{
		Timestamp:   ts,
		Lat:         make([]float64, n),
		Lon:         make([]float64, n),
		Depth:       make([]float64, n),
		Backscatter: make([]float64, n),
		Angle:       make([]float64, n),
	}

	for i := 0; i < n; i++ {
		batch.Depth[i] = rec.Depth[i]
		batch.Backscatter[i] = rec.Backscatter[i]
		batch.Angle[i] = math.Atan2(rec.AcrossTrack[i], rec.Depth[i]) * 180.0 / math.Pi

		lon, lat := geodesy.PositionFromBearingDxDy(
			refLon, refLat, rec.Heading, rec.AcrossTrack[i], rec.AlongTrack[i])
		batch.Lon[i] = lon
		batch.Lat[i] = lat
	}

	return PingResult{Batch: batch}
}
