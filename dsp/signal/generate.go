package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-fdm/dsp/core"
)

// Waveform selects the phase convention of a synthesized tone.
type Waveform int

const (
	// WaveformSine yields sin(2πft), used for messages.
	WaveformSine Waveform = iota
	// WaveformCosine yields cos(2πft), used for carriers.
	WaveformCosine
)

func (w Waveform) String() string {
	switch w {
	case WaveformSine:
		return "sine"
	case WaveformCosine:
		return "cosine"
	default:
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
}

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := NewGenerator(coreOpts...)
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// TimeBase returns the sampling grid described by the generator config.
func (g *Generator) TimeBase() (TimeBase, error) {
	return NewTimeBase(g.cfg.SampleRate, g.cfg.Duration)
}

// Tone synthesizes one waveform at freqHz over the generator time base.
func (g *Generator) Tone(freqHz float64, w Waveform) ([]float64, error) {
	tb, err := g.TimeBase()
	if err != nil {
		return nil, err
	}
	return Tone(tb, freqHz, w)
}

// Synthesize builds one row per frequency over the generator time base.
func (g *Generator) Synthesize(freqs []float64, w Waveform) (Matrix, error) {
	tb, err := g.TimeBase()
	if err != nil {
		return nil, err
	}
	return Synthesize(tb, freqs, w)
}

// AddNoise returns x plus white Gaussian noise at snrDB, seeded from the generator.
func (g *Generator) AddNoise(x []float64, snrDB float64) ([]float64, error) {
	return AddNoise(x, snrDB, g.seed)
}

// Sine returns s[k] = sin(2π f t[k]).
func Sine(tb TimeBase, freqHz float64) ([]float64, error) {
	return Tone(tb, freqHz, WaveformSine)
}

// Cosine returns c[k] = cos(2π f t[k]).
func Cosine(tb TimeBase, freqHz float64) ([]float64, error) {
	return Tone(tb, freqHz, WaveformCosine)
}

// Tone synthesizes a unit-amplitude tone of the requested waveform.
func Tone(tb TimeBase, freqHz float64, w Waveform) ([]float64, error) {
	if tb.Len() <= 0 {
		return nil, fmt.Errorf("%w: empty time base", core.ErrInvalidParameter)
	}
	if !core.IsPositiveFinite(freqHz) {
		return nil, fmt.Errorf("%w: %s frequency must be > 0: %v", core.ErrInvalidParameter, w, freqHz)
	}

	out := make([]float64, tb.Len())
	fillTone(out, tb, freqHz, w)
	return out, nil
}

func fillTone(dst []float64, tb TimeBase, freqHz float64, w Waveform) {
	omega := 2 * math.Pi * freqHz
	switch w {
	case WaveformCosine:
		for k := range dst {
			dst[k] = math.Cos(omega * tb.At(k))
		}
	default:
		for k := range dst {
			dst[k] = math.Sin(omega * tb.At(k))
		}
	}
}

// Synthesize is the explicit outer-product broadcast of a frequency list
// against a time base: row i holds the tone at freqs[i], giving an N×L matrix.
func Synthesize(tb TimeBase, freqs []float64, w Waveform) (Matrix, error) {
	if len(freqs) == 0 {
		return nil, fmt.Errorf("%w: no frequencies to synthesize", core.ErrInvalidParameter)
	}
	if tb.Len() <= 0 {
		return nil, fmt.Errorf("%w: empty time base", core.ErrInvalidParameter)
	}
	for i, f := range freqs {
		if !core.IsPositiveFinite(f) {
			return nil, fmt.Errorf("%w: %s frequency[%d] must be > 0: %v", core.ErrInvalidParameter, w, i, f)
		}
	}

	m := NewMatrix(len(freqs), tb.Len())
	for i, f := range freqs {
		fillTone(m[i], tb, f, w)
	}
	return m, nil
}

// Power returns the mean-square value of x.
func Power(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return f64.DotProduct(x, x) / float64(len(x))
}

// AddNoise returns a new slice holding x plus zero-mean white Gaussian noise
// scaled so that Power(x)/Power(noise) equals snrDB. Shape and sample
// alignment are preserved; the same seed always yields the same noise.
func AddNoise(x []float64, snrDB float64, seed int64) ([]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: noise input must not be empty", core.ErrShapeMismatch)
	}
	if math.IsNaN(snrDB) || math.IsInf(snrDB, 0) {
		return nil, fmt.Errorf("%w: snr must be finite: %v", core.ErrInvalidParameter, snrDB)
	}

	out := make([]float64, len(x))
	copy(out, x)

	sigma := math.Sqrt(Power(x) / core.DBPowerToLinear(snrDB))
	if sigma == 0 {
		return out, nil
	}

	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] += sigma * rng.NormFloat64()
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("%w: normalize target peak must be >= 0: %f", core.ErrInvalidParameter, targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: normalize input must not be empty", core.ErrShapeMismatch)
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	f64.Scale(out, data, targetPeak/maxAbs)
	return out, nil
}
