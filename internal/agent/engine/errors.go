package engine

import "errors"

var (
	// ErrMaxRoundTrips is returned when a turn exhausts its model round-trip
	// budget without reaching a final text answer.
	ErrMaxRoundTrips = errors.New("turn exceeded max model round trips")

	// ErrModelTimeout is returned when a single model call exceeds the
	// configured timeout.
	ErrModelTimeout = errors.New("model call timed out")
)
