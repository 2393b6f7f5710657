package sim

import "errors"

var (
	ErrInvalidConfig = errors.New("sim: invalid config")
	ErrNonFinite     = errors.New("sim: non-finite body state")
)
