package zerophase

import (
	"fmt"

	"github.com/cwbudde/algo-fdm/dsp/core"
	"github.com/cwbudde/algo-fdm/dsp/filter/biquad"
)

// Option configures a Filterer.
type Option func(*Filterer)

// WithPadLen overrides the odd-extension length at each end. Negative
// values are ignored; 0 disables padding.
func WithPadLen(n int) Option {
	return func(f *Filterer) {
		if n >= 0 {
			f.padLen = n
		}
	}
}

// Filterer applies a fixed cascade zero-phase. It keeps a scratch buffer
// between calls and is therefore not safe for concurrent use; build one
// per goroutine. The sections themselves are only read.
type Filterer struct {
	sections []biquad.Coefficients
	zi       [][2]float64
	padLen   int
	chain    *biquad.Chain
	buf      []float64
}

// New returns a Filterer for sections.
func New(sections []biquad.Coefficients, opts ...Option) (*Filterer, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: zero-phase filter needs at least one section", core.ErrInvalidParameter)
	}

	f := &Filterer{
		sections: sections,
		zi:       biquad.SteadyState(sections),
		padLen:   DefaultPadLen(sections),
		chain:    biquad.NewChain(sections),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// DefaultPadLen returns 3*(2*sections+1), less one per first-order
// section, matching the common forward-backward convention.
func DefaultPadLen(sections []biquad.Coefficients) int {
	firstOrder := 0
	for i := range sections {
		if sections[i].IsFirstOrder() {
			firstOrder++
		}
	}
	return 3 * (2*len(sections) + 1 - firstOrder)
}

// PadLen returns the configured extension length.
func (f *Filterer) PadLen() int { return f.padLen }

// Apply filters x forward and backward and returns a new slice of len(x).
// When x is shorter than the configured padding, the padding shrinks to
// len(x)-1.
func (f *Filterer) Apply(x []float64) ([]float64, error) {
	n := len(x)
	if n == 0 {
		return nil, fmt.Errorf("%w: zero-phase input must not be empty", core.ErrShapeMismatch)
	}

	pad := f.padLen
	if pad > n-1 {
		pad = n - 1
	}

	f.buf = core.EnsureLen(f.buf, n+2*pad)
	ext := f.buf
	oddExtend(ext, x, pad)

	f.run(ext, ext[0])
	core.Reverse(ext)
	f.run(ext, ext[0])
	core.Reverse(ext)

	out := make([]float64, n)
	copy(out, ext[pad:pad+n])
	return out, nil
}

// run filters buf in place starting from the steady state for level.
func (f *Filterer) run(buf []float64, level float64) {
	state := make([][2]float64, len(f.zi))
	for i, z := range f.zi {
		state[i] = [2]float64{z[0] * level, z[1] * level}
	}
	f.chain.SetState(state)
	f.chain.ProcessBlock(buf)
}

// oddExtend writes x into dst with pad samples of odd reflection on each
// side: dst[pad-i] = 2*x[0] - x[i] and dst[pad+n-1+i] = 2*x[n-1] - x[n-1-i].
func oddExtend(dst, x []float64, pad int) {
	n := len(x)
	first, last := x[0], x[n-1]
	for i := 1; i <= pad; i++ {
		dst[pad-i] = 2*first - x[i]
		dst[pad+n-1+i] = 2*last - x[n-1-i]
	}
	copy(dst[pad:pad+n], x)
}

// Filter is a one-shot convenience for New followed by Apply.
func Filter(sections []biquad.Coefficients, x []float64, opts ...Option) ([]float64, error) {
	f, err := New(sections, opts...)
	if err != nil {
		return nil, err
	}
	return f.Apply(x)
}
