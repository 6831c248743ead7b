package sonar

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary holds descriptive statistics for one numeric output column.
type ColumnSummary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// String formats the summary for log output.
func (s ColumnSummary) String() string {
	return fmt.Sprintf("n=%d min=%.3f max=%.3f mean=%.3f stddev=%.3f",
		s.Count, s.Min, s.Max, s.Mean, s.StdDev)
}

// Summarize computes min/max/mean/stddev over a single column. Returns a
// zero-valued summary for empty input. Read-only; never modifies the column.
func Summarize(column []float64) ColumnSummary {
	if len(column) == 0 {
		return ColumnSummary{}
	}
	return ColumnSummary{
		Count:  len(column),
		Min:    floats.Min(column),
		Max:    floats.Max(column),
		Mean:   stat.Mean(column, nil),
		StdDev: stat.StdDev(column, nil),
	}
}

// Summaries computes per-column statistics over the whole dataset, keyed by
// column name (lat, lon, depth, backscatter, angle).
func (ds *SoundingDataset) Summaries() map[string]ColumnSummary {
	return map[string]ColumnSummary{
		"lat":         Summarize(ds.Lat),
		"lon":         Summarize(ds.Lon),
		"depth":       Summarize(ds.Depth),
		"backscatter": Summarize(ds.Backscatter),
		"angle":       Summarize(ds.Angle),
	}
}
