// Package pointcloud assembles per-ping batches into the final flattened
// sounding dataset.
//
// The assembler deliberately accumulates variable-length per-ping slices in
// a growable container and pays one bulk-copy cost at finalization, rather
// than growing five flat arrays incrementally across potentially hundreds
// of thousands of pings.
package pointcloud

import (
	"github.com/banshee-data/seafloor.report/internal/sonar"
)

// Assembler accumulates successfully processed ping batches for one run.
// It is owned solely by the processing loop; no concurrent access.
type Assembler struct {
	batches    []*sonar.PingBatch
	totalBeams int
}

// New returns an empty assembler.
func New() *Assembler {
	return &Assembler{}
}

// Add appends one processed ping's batch. Nil and zero-beam batches are
// ignored so skipped pings never reach the index.
func (a *Assembler) Add(batch *sonar.PingBatch) {
	if batch == nil || batch.BeamCount() == 0 {
		return
	}
	a.batches = append(a.batches, batch)
	a.totalBeams += batch.BeamCount()
}

// NumPings returns the number of batches accumulated so far.
func (a *Assembler) NumPings() int {
	return len(a.batches)
}

// TotalBeams returns the running sum of accumulated beam counts.
func (a *Assembler) TotalBeams() int {
	return a.totalBeams
}

// Finalize concatenates all accumulated batches, in ping-arrival order and
// original beam order within each ping, into one immutable dataset, and
// builds the ping index as the exclusive prefix sum of beam counts.
//
// Returns sonar.ErrNoValidData when zero pings were accumulated: either the
// file had no depth records at all, or every ping fell outside the
// navigation domain.
func (a *Assembler) Finalize() (*sonar.SoundingDataset, error) {
	if len(a.batches) == 0 {
		return nil, sonar.ErrNoValidData
	}

	n := len(a.batches)
	ds := &sonar.SoundingDataset{
		Lat:         make([]float64, 0, a.totalBeams),
		Lon:         make([]float64, 0, a.totalBeams),
		Depth:       make([]float64, 0, a.totalBeams),
		Backscatter: make([]float64, 0, a.totalBeams),
		Angle:       make([]float64, 0, a.totalBeams),
		Index: sonar.PingIndex{
			BeamCount:   make([]int32, n),
			StartOffset: make([]int32, n),
			PingTime:    make([]float64, n),
		},
	}

	var offset int32
	for k, batch := range a.batches {
		ds.Index.BeamCount[k] = int32(batch.BeamCount())
		ds.Index.StartOffset[k] = offset
		ds.Index.PingTime[k] = batch.Timestamp
		offset += int32(batch.BeamCount())

		ds.Lat = append(ds.Lat, batch.Lat...)
		ds.Lon = append(ds.Lon, batch.Lon...)
		ds.Depth = append(ds.Depth, batch.Depth...)
		ds.Backscatter = append(ds.Backscatter, batch.Backscatter...)
		ds.Angle = append(ds.Angle, batch.Angle...)
	}

	return ds, nil
}
