package scoring

import "errors"

// ErrInvalidWeights indicates a weight table that cannot be used for scoring.
var ErrInvalidWeights = errors.New("invalid weights")
