package parse

import "time"

// EpochSeconds resolves a datagram header's RecordDate (YYYYMMDD) and
// TimeMillis (milliseconds since midnight) into epoch seconds UTC. This is
// the timestamp every ping and navigation fix is keyed on, so both decode
// paths must go through the same conversion.
func EpochSeconds(recordDate uint32, timeMillis uint32) float64 {
	year := int(recordDate / 10000)
	month := time.Month(recordDate / 100 % 100)
	day := int(recordDate % 100)

	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return float64(midnight.Unix()) + float64(timeMillis)/1000.0
}
