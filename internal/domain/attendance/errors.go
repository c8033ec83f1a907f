package attendance

import "errors"

// Sentinel kinds for attendance errors.
var (
	ErrMalformedRow  = errors.New("malformed attendance row")
	ErrUnknownPolicy = errors.New("unknown validation policy")
)
