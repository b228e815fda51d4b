package pass

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-fdm/dsp/filter/biquad"
)

// ButterworthBP designs a bandpass Butterworth cascade with -3 dB edges at
// low and high (Hz) by the classical lowpass-to-bandpass transform of an
// order-N analog prototype followed by the bilinear transform.
//
// The result has order sections (total order 2N). Every section carries one
// zero at DC and one at Nyquist and is scaled to unity gain at the
// geometric band center, so the cascade passes the center at 0 dB.
// Returns nil for invalid edges or order.
func ButterworthBP(low, high float64, order int, sampleRate float64) []biquad.Coefficients {
	if order <= 0 || !(low < high) || !validFrequency(low, sampleRate) || !validFrequency(high, sampleRate) {
		return nil
	}

	k := 2 * sampleRate
	wl := k * math.Tan(math.Pi*low/sampleRate)
	wh := k * math.Tan(math.Pi*high/sampleRate)
	bw := wh - wl
	w0sq := wl * wh

	// Digital frequency that the analog center maps back to.
	center := sampleRate / math.Pi * math.Atan(math.Sqrt(w0sq)/k)

	bilinear := func(s complex128) complex128 {
		return (complex(k, 0) + s) / (complex(k, 0) - s)
	}

	sections := make([]biquad.Coefficients, 0, order)
	for _, p := range prototypePoles(order) {
		// s^2 - p*bw*s + w0^2 = 0
		pb := p * complex(bw, 0)
		disc := cmplx.Sqrt(pb*pb - complex(4*w0sq, 0))
		for _, s := range []complex128{(pb + disc) / 2, (pb - disc) / 2} {
			z := bilinear(s)
			sections = append(sections, bandSection(z, cmplx.Conj(z), center, sampleRate))
		}
	}

	// The real prototype pole of odd orders maps to either a conjugate pair
	// or, for very wide bands, two real poles. Both fill one section.
	if order%2 != 0 {
		disc := cmplx.Sqrt(complex(bw*bw-4*w0sq, 0))
		z1 := bilinear((complex(-bw, 0) + disc) / 2)
		z2 := bilinear((complex(-bw, 0) - disc) / 2)
		sections = append(sections, bandSection(z1, z2, center, sampleRate))
	}

	return sections
}

// bandSection builds (1 - z^-2) / ((1 - z1 z^-1)(1 - z2 z^-1)) scaled to
// unity magnitude at center. z1 and z2 must be real or a conjugate pair.
func bandSection(z1, z2 complex128, center, sampleRate float64) biquad.Coefficients {
	c := biquad.Coefficients{
		B0: 1,
		B2: -1,
		A1: -real(z1 + z2),
		A2: real(z1 * z2),
	}
	g := cmplx.Abs(c.Response(center, sampleRate))
	if g > 0 {
		c.B0 /= g
		c.B2 /= g
	}
	return c
}

// prototypePoles returns the upper-half-plane poles of the unit-cutoff
// analog Butterworth lowpass of the given order. The real pole of odd
// orders is not included.
func prototypePoles(order int) []complex128 {
	poles := make([]complex128, 0, order/2)
	for i := range order / 2 {
		theta := math.Pi * float64(2*i+1+order) / float64(2*order)
		poles = append(poles, cmplx.Rect(1, theta))
	}
	return poles
}
