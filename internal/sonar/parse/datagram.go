package parse

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/banshee-data/seafloor.report/internal/sonar"
)

// Scale factors for the fixed-point fields in decoded datagram bodies.
const (
	LatitudeScale     = 2e7  // position datagram latitude: degrees * 2e7
	LongitudeScale    = 1e7  // position datagram longitude: degrees * 1e7
	HeadingScale      = 0.01 // heading fields: 0.01 degree per LSB
	ReflectivityScale = 0.1  // XYZ 88 reflectivity: 0.1 dB per LSB

	// positionBodyMin covers the fixed part of a 'P' body: lat(4) + lon(4) +
	// quality(2) + speed(2) + course(2) + heading(2) + descriptor(1) +
	// input length(1). The raw input sentence follows and is not decoded.
	positionBodyMin = 18

	// xyz88FixedSize covers the fixed part of an 'X' body before the beam
	// array: heading(2) + sound speed(2) + transducer depth(4) + beam
	// count(2) + valid detections(2) + sampling frequency(4) +
	// scanning info(1) + spare(3).
	xyz88FixedSize = 20

	// xyz88BeamSize is one beam entry: depth(4) + across(4) + along(4) +
	// detection window(2) + quality factor(1) + incidence adjustment(1) +
	// detection info(1) + cleaning info(1) + reflectivity(2).
	xyz88BeamSize = 20
)

// DecodePosition decodes a 'P' datagram body into a position fix. The fix
// timestamp is resolved from the datagram header's date and time-of-day
// fields.
func DecodePosition(d *Datagram) (sonar.PositionFix, error) {
	if d.Type != DatagramPosition {
		return sonar.PositionFix{}, fmt.Errorf("not a position datagram: type %q", d.Type)
	}
	if len(d.Body) < positionBodyMin {
		return sonar.PositionFix{}, fmt.Errorf("position body too short: %d bytes", len(d.Body))
	}

	lat := float64(int32(binary.LittleEndian.Uint32(d.Body[0:4]))) / LatitudeScale
	lon := float64(int32(binary.LittleEndian.Uint32(d.Body[4:8]))) / LongitudeScale

	return sonar.PositionFix{
		Timestamp: EpochSeconds(d.RecordDate, d.TimeMillis),
		Lat:       lat,
		Lon:       lon,
	}, nil
}

// DecodeXYZ88 decodes an 'X' (XYZ 88) datagram body into a ping record.
// Every reported beam is kept, including zero-depth entries; downstream
// filtering is a consumer decision, not a decoding one.
func DecodeXYZ88(d *Datagram) (*sonar.PingRecord, error) {
	if d.Type != DatagramXYZ88 {
		return nil, fmt.Errorf("not an XYZ 88 datagram: type %q", d.Type)
	}
	if len(d.Body) < xyz88FixedSize {
		return nil, fmt.Errorf("XYZ 88 body too short: %d bytes", len(d.Body))
	}

	heading := float64(binary.LittleEndian.Uint16(d.Body[0:2])) * HeadingScale
	beamCount := int(binary.LittleEndian.Uint16(d.Body[8:10]))

	need := xyz88FixedSize + beamCount*xyz88BeamSize
	if len(d.Body) < need {
		return nil, fmt.Errorf("XYZ 88 body truncated: %d beams need %d bytes, have %d",
			beamCount, need, len(d.Body))
	}

	rec := &sonar.PingRecord{
		RecordDate:  d.RecordDate,
		TimeMillis:  d.TimeMillis,
		Heading:     heading,
		AcrossTrack: make([]float64, beamCount),
		AlongTrack:  make([]float64, beamCount),
		Depth:       make([]float64, beamCount),
		Backscatter: make([]float64, beamCount),
	}

	offset := xyz88FixedSize
	for i := 0; i < beamCount; i++ {
		beam := d.Body[offset : offset+xyz88BeamSize]
		rec.Depth[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(beam[0:4])))
		rec.AcrossTrack[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(beam[4:8])))
		rec.AlongTrack[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(beam[8:12])))
		rec.Backscatter[i] = float64(int16(binary.LittleEndian.Uint16(beam[18:20]))) * ReflectivityScale
		offset += xyz88BeamSize
	}

	return rec, nil
}
