package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fdm/dsp/core"
)

// Goertzel evaluates a single DFT term at an arbitrary frequency.
//
// The analyzer accumulates every sample passed to ProcessBlock since the
// last Reset. Power equals |X(f)|² of a DFT over the same samples; Amplitude
// rescales it to the peak amplitude of a sinusoid at f.
type Goertzel struct {
	coeff  float64
	s0, s1 float64
	count  int
}

// NewGoertzel returns a detector for frequency, which must lie in
// [0, sampleRate/2].
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if !core.IsPositiveFinite(sampleRate) {
		return nil, fmt.Errorf("%w: goertzel sample rate must be > 0: %v", core.ErrInvalidParameter, sampleRate)
	}
	if frequency < 0 || frequency > sampleRate/2 || math.IsNaN(frequency) {
		return nil, fmt.Errorf("%w: goertzel frequency must be within [0, %v]: %v", core.ErrInvalidParameter, sampleRate/2, frequency)
	}

	return &Goertzel{coeff: 2 * math.Cos(2*math.Pi*frequency/sampleRate)}, nil
}

// Reset clears the accumulated state.
func (g *Goertzel) Reset() {
	g.s0, g.s1, g.count = 0, 0, 0
}

// ProcessBlock feeds samples into the detector.
func (g *Goertzel) ProcessBlock(input []float64) {
	s0, s1 := g.s0, g.s1
	coeff := g.coeff
	for _, x := range input {
		s0, s1 = x+coeff*s0-s1, s0
	}
	g.s0, g.s1 = s0, s1
	g.count += len(input)
}

// Power returns |X(f)|² over the processed samples.
func (g *Goertzel) Power() float64 {
	return g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
}

// Amplitude returns 2|X(f)|/N, the peak amplitude of a sinusoid at the
// detector frequency spanning whole cycles of the processed block.
func (g *Goertzel) Amplitude() float64 {
	p := g.Power()
	if p <= 0 || g.count == 0 {
		return 0
	}
	return 2 * math.Sqrt(p) / float64(g.count)
}

// ToneLevels returns the Amplitude of x at each frequency.
func ToneLevels(x, frequencies []float64, sampleRate float64) ([]float64, error) {
	out := make([]float64, len(frequencies))
	for i, f := range frequencies {
		g, err := NewGoertzel(f, sampleRate)
		if err != nil {
			return nil, err
		}
		g.ProcessBlock(x)
		out[i] = g.Amplitude()
	}
	return out, nil
}
