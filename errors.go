package curve

import "errors"

var (
	// ErrUnknownInterpolation is returned when a snapshot names an
	// interpolation kind that does not exist.
	ErrUnknownInterpolation = errors.New("unknown interpolation")
	// ErrMalformedSnapshot is returned when a snapshot cannot be restored.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)
