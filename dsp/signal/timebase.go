package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fdm/dsp/core"
)

// lengthEpsilon absorbs binary rounding in T*fs so that 0.01 s at 50 kHz
// yields 500 samples rather than 499.
const lengthEpsilon = 1e-9

// TimeBase is a uniformly spaced grid of sample instants t[k] = k/fs for
// k in [0, floor(T*fs)).
type TimeBase struct {
	SampleRate float64
	Duration   float64
	n          int
}

// NewTimeBase validates fs and T and returns the sampling grid.
func NewTimeBase(sampleRate, duration float64) (TimeBase, error) {
	if !core.IsPositiveFinite(sampleRate) {
		return TimeBase{}, fmt.Errorf("%w: sample rate must be > 0: %v", core.ErrInvalidParameter, sampleRate)
	}
	if !core.IsPositiveFinite(duration) {
		return TimeBase{}, fmt.Errorf("%w: duration must be > 0: %v", core.ErrInvalidParameter, duration)
	}

	n := int(math.Floor(duration*sampleRate + lengthEpsilon))
	if n <= 0 {
		return TimeBase{}, fmt.Errorf("%w: %v s at %v Hz holds no samples", core.ErrInvalidParameter, duration, sampleRate)
	}

	return TimeBase{SampleRate: sampleRate, Duration: duration, n: n}, nil
}

// Len returns the number of sample instants.
func (tb TimeBase) Len() int { return tb.n }

// At returns the k-th sample instant in seconds.
func (tb TimeBase) At(k int) float64 {
	return float64(k) / tb.SampleRate
}

// Samples materializes the grid.
func (tb TimeBase) Samples() []float64 {
	out := make([]float64, tb.n)
	for k := range out {
		out[k] = tb.At(k)
	}
	return out
}

// Index returns the sample index closest to t seconds, clamped to the grid.
func (tb TimeBase) Index(t float64) int {
	k := int(math.Round(core.Clamp(t, 0, tb.At(tb.n-1)) * tb.SampleRate))
	if k >= tb.n {
		k = tb.n - 1
	}
	return k
}
