package weights

import "errors"

// Sentinel kinds for weight configuration errors.
var (
	ErrInvalidWeights = errors.New("invalid weight configuration")
)
