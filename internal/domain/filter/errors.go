package filter

import "errors"

// Sentinel kinds for filter errors.
var (
	ErrUnknownValue = errors.New("value not present in dataset")
)
