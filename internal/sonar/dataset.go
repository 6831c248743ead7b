package sonar

import "fmt"

// PingIndex provides O(1) lookup of each ping's beam range within the
// flattened dataset arrays. StartOffset is the exclusive prefix sum of
// BeamCount: StartOffset[0] == 0 and
// StartOffset[k+1] == StartOffset[k] + BeamCount[k].
//
// Only pings that contributed beams appear in the index; pings skipped on a
// navigation gap are excluded entirely.
type PingIndex struct {
	BeamCount   []int32   // beams contributed by each processed ping
	StartOffset []int32   // first flattened-array index for each ping
	PingTime    []float64 // resolved transmit timestamp, epoch seconds
}

// NumPings returns the number of indexed (successfully processed) pings.
func (ix *PingIndex) NumPings() int {
	return len(ix.BeamCount)
}

// SoundingDataset is the final georeferenced point cloud for one file:
// five flat, equal-length arrays plus the ping index. It is constructed
// exactly once at finalization and must be treated as immutable afterwards.
type SoundingDataset struct {
	Lat         []float64
	Lon         []float64
	Depth       []float64
	Backscatter []float64
	Angle       []float64

	Index PingIndex
}

// NumSoundings returns the total number of beam measurements.
func (ds *SoundingDataset) NumSoundings() int {
	return len(ds.Depth)
}

// PingSlice returns the half-open flattened-array range [start, end) for
// ping k. Valid for 0 <= k < Index.NumPings().
func (ds *SoundingDataset) PingSlice(k int) (start, end int) {
	start = int(ds.Index.StartOffset[k])
	end = start + int(ds.Index.BeamCount[k])
	return start, end
}

// Validate checks the structural invariants of the dataset: all flattened
// arrays share one length, that length equals the sum of per-ping beam
// counts, and the start offsets form an exclusive prefix sum.
func (ds *SoundingDataset) Validate() error {
	n := len(ds.Lat)
	if len(ds.Lon) != n || len(ds.Depth) != n || len(ds.Backscatter) != n || len(ds.Angle) != n {
		return fmt.Errorf("flattened array length mismatch: lat=%d lon=%d depth=%d backscatter=%d angle=%d",
			len(ds.Lat), len(ds.Lon), len(ds.Depth), len(ds.Backscatter), len(ds.Angle))
	}

	ix := &ds.Index
	if len(ix.StartOffset) != len(ix.BeamCount) || len(ix.PingTime) != len(ix.BeamCount) {
		return fmt.Errorf("index array length mismatch: counts=%d offsets=%d times=%d",
			len(ix.BeamCount), len(ix.StartOffset), len(ix.PingTime))
	}

	var total int32
	for k := range ix.BeamCount {
		if ix.StartOffset[k] != total {
			return fmt.Errorf("ping %d: start offset %d, want %d", k, ix.StartOffset[k], total)
		}
		if ix.BeamCount[k] < 0 {
			return fmt.Errorf("ping %d: negative beam count %d", k, ix.BeamCount[k])
		}
		total += ix.BeamCount[k]
	}
	if int(total) != n {
		return fmt.Errorf("beam count sum %d does not match flattened length %d", total, n)
	}

	return nil
}
