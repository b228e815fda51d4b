package pass

import (
	"math"

	"github.com/cwbudde/algo-fdm/dsp/filter/biquad"
)

// LowpassRBJ designs a second-order lowpass section (RBJ cookbook) at freq
// with quality factor q. It is the bilinear transform, prewarped at freq,
// of 1/(s^2 + s/q + 1).
func LowpassRBJ(freq, q, sampleRate float64) biquad.Coefficients {
	if !validFrequency(freq, sampleRate) || q <= 0 {
		return biquad.Coefficients{}
	}

	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	return normalizeBiquad(
		(1-cw)/2, 1-cw, (1-cw)/2,
		1+alpha, -2*cw, 1-alpha,
	)
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
