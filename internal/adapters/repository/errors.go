package repository

import "errors"

// Sentinel kinds for the mandatory attendance dataset.
var (
	ErrAttendanceMissing   = errors.New("attendance dataset not found")
	ErrAttendanceMalformed = errors.New("attendance dataset malformed")
)
