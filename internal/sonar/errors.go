package sonar

import "errors"

// ErrEmptyNavigation is returned when a file contains no position fixes.
// Without at least one fix no georeferencing is possible, so this is fatal
// for the file.
var ErrEmptyNavigation = errors.New("no navigation fixes in file")

// ErrNoValidData is returned at finalization when zero pings were
// successfully processed: either the file had no depth records, or every
// ping fell outside the navigation domain.
var ErrNoValidData = errors.New("no valid depth data in file")
