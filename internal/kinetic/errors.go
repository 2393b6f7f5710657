package kinetic

import "errors"

var (
	// ErrInvalidBody indicates a non-positive radius or mass, or a non-finite vector.
	ErrInvalidBody = errors.New("kinetic: invalid body (radius and mass must be positive)")

	// ErrInvalidBounds indicates a box with non-positive width/height or negative depth.
	ErrInvalidBounds = errors.New("kinetic: invalid bounds")
)
