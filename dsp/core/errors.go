package core

import "errors"

// Error taxonomy shared by every pipeline stage. Stages wrap these with
// context using fmt.Errorf("%w: ...") so callers can test with errors.Is.
var (
	// ErrInvalidParameter reports a non-positive rate, duration or frequency,
	// a cutoff outside (0, Nyquist), or a channel plan that cannot work.
	ErrInvalidParameter = errors.New("fdm: invalid parameter")

	// ErrShapeMismatch reports mismatched array lengths or row counts
	// between stages.
	ErrShapeMismatch = errors.New("fdm: shape mismatch")
)
