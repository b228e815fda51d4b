package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-fdm/dsp/core"
	"github.com/cwbudde/algo-fdm/dsp/window"
)

// Spectrum is a one-sided amplitude spectrum covering [0, fs/2].
type Spectrum struct {
	Freqs      []float64
	Magnitudes []float64
	// Resolution is the bin spacing in Hz.
	Resolution float64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithFFTSize selects the zero-padded transform. The size is rounded up to
// a power of two and to at least the input length. Zero restores the
// exact-length transform.
func WithFFTSize(n int) Option {
	return func(a *Analyzer) {
		if n >= 0 {
			a.fftSize = n
		}
	}
}

// WithWindow applies an analysis window before the transform. Magnitudes are
// corrected for the window's coherent gain.
func WithWindow(t window.Type) Option {
	return func(a *Analyzer) {
		a.window = t
	}
}

// Analyzer computes amplitude spectra at a fixed sample rate.
type Analyzer struct {
	sampleRate float64
	fftSize    int
	window     window.Type
}

// NewAnalyzer returns an Analyzer for signals sampled at sampleRate.
func NewAnalyzer(sampleRate float64, opts ...Option) (*Analyzer, error) {
	if !core.IsPositiveFinite(sampleRate) {
		return nil, fmt.Errorf("%w: sample rate must be > 0: %v", core.ErrInvalidParameter, sampleRate)
	}

	a := &Analyzer{sampleRate: sampleRate, window: window.TypeRectangular}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

// SampleRate returns the configured sample rate.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// Analyze returns the one-sided amplitude spectrum of x.
func (a *Analyzer) Analyze(x []float64) (Spectrum, error) {
	n := len(x)
	if n == 0 {
		return Spectrum{}, fmt.Errorf("%w: spectrum input must not be empty", core.ErrShapeMismatch)
	}

	w := window.Generate(a.window, n, window.WithPeriodic())
	cg := window.CoherentGain(w)
	if cg == 0 {
		return Spectrum{}, fmt.Errorf("%w: window %s has zero gain at length %d", core.ErrInvalidParameter, a.window, n)
	}
	xw, err := window.ApplyCoefficients(x, w)
	if err != nil {
		return Spectrum{}, err
	}

	var (
		bins []complex128
		size int
	)
	if a.fftSize == 0 {
		size = n
		bins = fourier.NewFFT(n).Coefficients(nil, xw)
	} else {
		size = nextPow2(max(a.fftSize, n))
		bins, err = paddedTransform(xw, size)
		if err != nil {
			return Spectrum{}, err
		}
	}

	mags := Magnitude(bins)
	scale := 2 / (float64(n) * cg)
	for k := range mags {
		if k == 0 || (size%2 == 0 && k == size/2) {
			mags[k] *= scale / 2
			continue
		}
		mags[k] *= scale
	}

	df := a.sampleRate / float64(size)
	freqs := make([]float64, len(mags))
	for k := range freqs {
		freqs[k] = float64(k) * df
	}

	return Spectrum{Freqs: freqs, Magnitudes: mags, Resolution: df}, nil
}

func paddedTransform(x []float64, size int) ([]complex128, error) {
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan %d: %w", size, err)
	}

	in := make([]complex128, size)
	for i, v := range x {
		in[i] = complex(v, 0)
	}
	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: forward fft: %w", err)
	}
	return out[:size/2+1], nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// binRange returns the half-open bin index range covering [lo, hi] Hz.
func (s Spectrum) binRange(lo, hi float64) (int, int) {
	if len(s.Magnitudes) == 0 || s.Resolution <= 0 || hi < lo {
		return 0, 0
	}
	from := max(int(math.Ceil(lo/s.Resolution-1e-9)), 0)
	to := min(int(math.Floor(hi/s.Resolution+1e-9))+1, len(s.Magnitudes))
	if to < from {
		return 0, 0
	}
	return from, to
}

// Peak returns the bin with the largest magnitude within [lo, hi] Hz. ok is
// false when no bin falls inside the range.
func (s Spectrum) Peak(lo, hi float64) (freq, magnitude float64, ok bool) {
	from, to := s.binRange(lo, hi)
	if from >= to {
		return 0, 0, false
	}

	best := from
	for k := from + 1; k < to; k++ {
		if s.Magnitudes[k] > s.Magnitudes[best] {
			best = k
		}
	}
	return s.Freqs[best], s.Magnitudes[best], true
}

// BandEnergy returns the summed sinusoid power A²/2 of the bins within
// [lo, hi] Hz.
func (s Spectrum) BandEnergy(lo, hi float64) float64 {
	from, to := s.binRange(lo, hi)
	if from >= to {
		return 0
	}
	band := s.Magnitudes[from:to]
	return f64.DotProduct(band, band) / 2
}

// DB returns the magnitudes in dB, clamped at floorDB.
func (s Spectrum) DB(floorDB float64) []float64 {
	return MagnitudeDB(s.Magnitudes, floorDB)
}
