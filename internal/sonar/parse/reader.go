// Package parse reads Kongsberg EM-series ".all" survey recordings.
//
// An .all file is a sequence of variable-length datagrams, each framed as:
//
//	├── NumberOfBytes (4 bytes, little-endian) - count of all bytes that follow
//	├── STX (1 byte, 0x02)
//	├── TypeOfDatagram (1 byte ASCII, e.g. 'P' position, 'X' XYZ 88 depth)
//	├── EMModel (2 bytes) - echosounder model number (e.g. 122)
//	├── RecordDate (4 bytes) - date as YYYYMMDD
//	├── TimeMillis (4 bytes) - milliseconds since midnight
//	├── Counter (2 bytes) - ping / datagram counter
//	├── SerialNumber (2 bytes) - system serial number
//	├── datagram body (variable)
//	└── ETX (1 byte, 0x03) + checksum (2 bytes)
//
// The reader exposes the two-pass access pattern the processing pipeline
// needs: a full navigation preload ('P' datagrams), an explicit rewind to
// the start of the file, then a streaming pass over depth datagrams. Only
// the 'P' and 'X' datagram bodies are decoded; all other types are
// returned as raw payloads and skipped by the pipeline.
package parse

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/seafloor.report/internal/sonar"
)

// Datagram framing constants.
const (
	STX = 0x02 // start-of-datagram marker, first payload byte
	ETX = 0x03 // end-of-datagram marker, third-from-last payload byte

	// CommonHeaderSize is the fixed header after the length field:
	// STX + type + model + date + time + counter + serial.
	CommonHeaderSize = 16

	// TrailerSize is ETX plus the 2-byte checksum.
	TrailerSize = 3

	// LengthFieldSize is the 4-byte little-endian datagram length prefix.
	LengthFieldSize = 4
)

// Datagram type identifiers for the types this reader decodes.
const (
	DatagramPosition = 'P' // navigation fix from the positioning system
	DatagramXYZ88    = 'X' // XYZ 88 depth datagram, one per ping
)

// Header is the decoded common datagram header.
type Header struct {
	NumberOfBytes uint32 // bytes following the length field
	Type          byte   // datagram type character
	EMModel       uint16 // echosounder model number
	RecordDate    uint32 // YYYYMMDD
	TimeMillis    uint32 // milliseconds since midnight
	Counter       uint16 // ping or datagram counter
	SerialNumber  uint16 // system serial number
}

// Datagram is one framed record: the common header plus the undecoded body
// (trailer stripped).
type Datagram struct {
	Header
	Body []byte
}

// Reader streams datagrams from one .all file. The file handle is owned
// exclusively by the reader for the duration of a run and must be released
// with Close on every exit path.
type Reader struct {
	f    *os.File
	size int64
	pos  int64
}

// Open opens a survey file for reading. A missing input path surfaces as
// the *os.PathError from os.Open (errors.Is(err, fs.ErrNotExist)).
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Reader{f: f, size: info.Size()}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.f.Close()
}

// Rewind repositions the reader at the start of the file so a second pass
// can stream depth records after the navigation preload.
func (r *Reader) Rewind() error {
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	r.pos = 0
	return nil
}

// MoreData reports whether at least one more length field remains.
func (r *Reader) MoreData() bool {
	return r.pos+LengthFieldSize <= r.size
}

// ReadDatagram reads and frames the next datagram. The body is returned
// raw; use DecodePosition or DecodeXYZ88 for the types the pipeline
// consumes. A truncated or unframed record is an error: framing damage
// means the remainder of the file cannot be trusted.
func (r *Reader) ReadDatagram() (*Datagram, error) {
	var lenField [LengthFieldSize]byte
	if _, err := io.ReadFull(r.f, lenField[:]); err != nil {
		return nil, fmt.Errorf("read datagram length at offset %d: %w", r.pos, err)
	}
	numBytes := binary.LittleEndian.Uint32(lenField[:])
	if numBytes < CommonHeaderSize+TrailerSize {
		return nil, fmt.Errorf("datagram at offset %d too short: %d bytes", r.pos, numBytes)
	}

	payload := make([]byte, numBytes)
	if _, err := io.ReadFull(r.f, payload); err != nil {
		return nil, fmt.Errorf("read datagram payload at offset %d: %w", r.pos, err)
	}
	r.pos += int64(LengthFieldSize) + int64(numBytes)

	if payload[0] != STX {
		return nil, fmt.Errorf("bad STX 0x%02x at offset %d", payload[0], r.pos)
	}

	d := &Datagram{
		Header: Header{
			NumberOfBytes: numBytes,
			Type:          payload[1],
			EMModel:       binary.LittleEndian.Uint16(payload[2:4]),
			RecordDate:    binary.LittleEndian.Uint32(payload[4:8]),
			TimeMillis:    binary.LittleEndian.Uint32(payload[8:12]),
			Counter:       binary.LittleEndian.Uint16(payload[12:14]),
			SerialNumber:  binary.LittleEndian.Uint16(payload[14:16]),
		},
		Body: payload[CommonHeaderSize : numBytes-TrailerSize],
	}
	return d, nil
}

// LoadNavigation scans the whole file from the beginning and collects every
// position fix, in file order. The reader is left at end of file; callers
// must Rewind before the depth-record pass.
func (r *Reader) LoadNavigation() ([]sonar.PositionFix, error) {
	if err := r.Rewind(); err != nil {
		return nil, err
	}

	var fixes []sonar.PositionFix
	for r.MoreData() {
		d, err := r.ReadDatagram()
		if err != nil {
			return nil, err
		}
		if d.Type != DatagramPosition {
			continue
		}
		fix, err := DecodePosition(d)
		if err != nil {
			return nil, err
		}
		fixes = append(fixes, fix)
	}
	return fixes, nil
}

// NextDepthRecord reads the next datagram and decodes it when it is a depth
// datagram. Returns (nil, nil) for any other datagram type so the caller
// can keep streaming without caring about the rest of the format.
func (r *Reader) NextDepthRecord() (*sonar.PingRecord, error) {
	d, err := r.ReadDatagram()
	if err != nil {
		return nil, err
	}
	if d.Type != DatagramXYZ88 {
		return nil, nil
	}
	return DecodeXYZ88(d)
}
