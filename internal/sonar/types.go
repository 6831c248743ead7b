// Package sonar contains the core data model for multibeam echosounder
// survey processing: navigation fixes, per-ping records, and the flattened
// sounding dataset produced by a processing run.
package sonar

// PositionFix is one timestamped vessel position from the navigation stream.
// Timestamp is in epoch seconds (UTC). Fixes are immutable once loaded.
type PositionFix struct {
	Timestamp float64 // epoch seconds
	Lat       float64 // degrees, WGS-84
	Lon       float64 // degrees, WGS-84
}

// PingRecord is one decoded depth datagram: a single transmit/receive cycle
// with per-beam relative offsets and measurements. All per-beam slices have
// equal length. Records are created per datagram, consumed immediately by
// the pipeline, and never retained.
type PingRecord struct {
	RecordDate uint32 // date as YYYYMMDD from the datagram header
	TimeMillis uint32 // milliseconds since midnight from the datagram header
	Heading    float64 // vessel heading in degrees

	AcrossTrack []float64 // beam offset perpendicular to heading, metres
	AlongTrack  []float64 // beam offset parallel to heading, metres
	Depth       []float64 // vertical depth below transducer, metres
	Backscatter []float64 // returned acoustic intensity, dB
}

// BeamCount returns the number of beams in the record.
func (r *PingRecord) BeamCount() int {
	return len(r.Depth)
}

// PingBatch is the georeferenced output for one successfully processed ping.
// All slices have length equal to the source record's beam count.
type PingBatch struct {
	Timestamp   float64   // resolved transmit time, epoch seconds
	Lat         []float64 // absolute beam latitude, degrees
	Lon         []float64 // absolute beam longitude, degrees
	Depth       []float64 // metres
	Backscatter []float64 // dB
	Angle       []float64 // beam pointing angle, degrees
}

// BeamCount returns the number of beams in the batch.
func (b *PingBatch) BeamCount() int {
	return len(b.Depth)
}
