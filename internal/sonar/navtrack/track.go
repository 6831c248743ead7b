package navtrack

import (
	"sort"

	"github.com/banshee-data/seafloor.report/internal/sonar"
)

// Track holds the two per-axis interpolants built from a file's navigation
// stream. Read-only after construction; one Track serves every ping in a
// run.
type Track struct {
	lat *Interpolator
	lon *Interpolator
}

// NewTrack builds a navigation track from position fixes. Returns
// sonar.ErrEmptyNavigation when no fixes were loaded.
//
// Fixes are expected in ascending timestamp order as recorded; because an
// out-of-order stream would silently corrupt interpolation, the input is
// defensively sorted by timestamp before the interpolants are built. The
// caller's slice is not modified.
func NewTrack(fixes []sonar.PositionFix) (*Track, error) {
	if len(fixes) == 0 {
		return nil, sonar.ErrEmptyNavigation
	}

	sorted := make([]sonar.PositionFix, len(fixes))
	copy(sorted, fixes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	ts := make([]float64, len(sorted))
	lats := make([]float64, len(sorted))
	lons := make([]float64, len(sorted))
	for i, fix := range sorted {
		ts[i] = fix.Timestamp
		lats[i] = fix.Lat
		lons[i] = fix.Lon
	}

	lat, err := NewInterpolator(ts, lats)
	if err != nil {
		return nil, err
	}
	lon, err := NewInterpolator(ts, lons)
	if err != nil {
		return nil, err
	}

	return &Track{lat: lat, lon: lon}, nil
}

// Domain returns the inclusive time range covered by the track.
func (tr *Track) Domain() (min, max float64) {
	return tr.lat.Domain()
}

// PositionAt returns the interpolated vessel position at time t. The
// boolean is false when t is outside the navigation domain, in which case
// the ping at t cannot be georeferenced and should be skipped.
func (tr *Track) PositionAt(t float64) (lat, lon float64, ok bool) {
	lat, ok = tr.lat.ValueAt(t)
	if !ok {
		return 0, 0, false
	}
	lon, ok = tr.lon.ValueAt(t)
	if !ok {
		return 0, 0, false
	}
	return lat, lon, true
}
