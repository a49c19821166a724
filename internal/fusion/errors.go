package fusion

import "errors"

var (
	// ErrInvalidInput indicates a malformed pillar index, longitude or weight.
	ErrInvalidInput = errors.New("invalid fusion input")

	// ErrInvalidResult indicates a result that violates a numeric invariant.
	ErrInvalidResult = errors.New("invalid fusion result")
)
