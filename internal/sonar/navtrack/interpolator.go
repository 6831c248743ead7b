// Package navtrack builds the vessel navigation track: one linear
// interpolant per coordinate axis over the timestamped position fixes
// loaded from a survey file. The track answers "where was the vessel at
// time t" for every ping the pipeline processes.
package navtrack

import (
	"fmt"
	"sort"
)

// Interpolator is a piecewise-linear time series over ascending timestamps.
// Queries outside the loaded domain return no value rather than
// extrapolating; that is a normal outcome near file boundaries, not an
// error.
type Interpolator struct {
	ts   []float64
	vals []float64
}

// NewInterpolator builds an interpolator over parallel timestamp/value
// slices. Timestamps must be ascending; callers that cannot guarantee order
// should sort first (Track does).
func NewInterpolator(ts, vals []float64) (*Interpolator, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("empty time series")
	}
	if len(ts) != len(vals) {
		return nil, fmt.Errorf("timestamp/value length mismatch: %d vs %d", len(ts), len(vals))
	}
	for i := 1; i < len(ts); i++ {
		if ts[i] < ts[i-1] {
			return nil, fmt.Errorf("timestamps not ascending at index %d: %f < %f", i, ts[i], ts[i-1])
		}
	}
	return &Interpolator{ts: ts, vals: vals}, nil
}

// Domain returns the inclusive time range covered by the series.
func (ip *Interpolator) Domain() (min, max float64) {
	return ip.ts[0], ip.ts[len(ip.ts)-1]
}

// ValueAt evaluates the series at time t. The boolean is false when t falls
// outside the domain. An exact timestamp hit returns the stored value;
// otherwise the two bracketing samples are interpolated linearly.
func (ip *Interpolator) ValueAt(t float64) (float64, bool) {
	if t < ip.ts[0] || t > ip.ts[len(ip.ts)-1] {
		return 0, false
	}

	// Index of the first timestamp >= t.
	i := sort.SearchFloat64s(ip.ts, t)
	if i < len(ip.ts) && ip.ts[i] == t {
		return ip.vals[i], true
	}

	// t lies strictly between ts[i-1] and ts[i].
	t0, t1 := ip.ts[i-1], ip.ts[i]
	v0, v1 := ip.vals[i-1], ip.vals[i]
	frac := (t - t0) / (t1 - t0)
	return v0 + frac*(v1-v0), true
}
