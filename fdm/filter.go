package fdm

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-fdm/dsp/core"
	"github.com/cwbudde/algo-fdm/dsp/filter/biquad"
	"github.com/cwbudde/algo-fdm/dsp/filter/design/pass"
)

// Filter is a designed Butterworth low-pass, shared read-only by every
// demodulator of a run.
type Filter struct {
	Sections   []biquad.Coefficients
	CutoffHz   float64
	Order      int
	SampleRate float64
}

// DesignLowpass designs a Butterworth low-pass of the given order. The
// normalized cutoff cutoff/(sampleRate/2) must lie strictly inside (0, 1).
func DesignLowpass(cutoffHz float64, order int, sampleRate float64) (Filter, error) {
	if err := checkLowpass(cutoffHz, order, sampleRate); err != nil {
		return Filter{}, err
	}

	sections := pass.ButterworthLP(cutoffHz, order, sampleRate)
	if len(sections) == 0 {
		return Filter{}, fmt.Errorf("%w: low-pass design failed for %v Hz order %d", core.ErrInvalidParameter, cutoffHz, order)
	}
	return Filter{Sections: sections, CutoffHz: cutoffHz, Order: order, SampleRate: sampleRate}, nil
}

func checkLowpass(cutoffHz float64, order int, sampleRate float64) error {
	if !core.IsPositiveFinite(sampleRate) {
		return fmt.Errorf("%w: sample rate must be > 0: %v", core.ErrInvalidParameter, sampleRate)
	}
	if wn := cutoffHz / (sampleRate / 2); !(wn > 0 && wn < 1) {
		return fmt.Errorf("%w: normalized cutoff %v (%v Hz) outside (0, 1)", core.ErrInvalidParameter, wn, cutoffHz)
	}
	if order < 1 {
		return fmt.Errorf("%w: filter order must be >= 1: %d", core.ErrInvalidParameter, order)
	}
	return nil
}

// Polynomial expands the cascade into numerator and denominator vectors
// of length Order+1 with a[0] = 1.
func (f Filter) Polynomial() (b, a []float64) {
	return biquad.Polynomial(f.Sections)
}

// Gain returns |H(freqHz)| of a single forward pass.
func (f Filter) Gain(freqHz float64) float64 {
	return cmplx.Abs(biquad.CascadeResponse(f.Sections, freqHz, f.SampleRate))
}

// Band is the isolation band-pass for one channel.
type Band struct {
	Channel  int
	LowHz    float64
	HighHz   float64
	Sections []biquad.Coefficients
}

// DesignBands designs one band-pass per channel with -3 dB edges at
// carrier ± (max message + guard).
func DesignBands(channels []Channel, guardHz float64, order int, sampleRate float64) ([]Band, error) {
	half := MaxMessageHz(channels) + guardHz
	out := make([]Band, len(channels))
	for i, ch := range channels {
		lo, hi := ch.CarrierHz-half, ch.CarrierHz+half
		sections := pass.ButterworthBP(lo, hi, order, sampleRate)
		if len(sections) == 0 {
			return nil, fmt.Errorf("%w: channel %d band-pass [%v, %v] Hz order %d", core.ErrInvalidParameter, i, lo, hi, order)
		}
		out[i] = Band{Channel: i, LowHz: lo, HighHz: hi, Sections: sections}
	}
	return out, nil
}
