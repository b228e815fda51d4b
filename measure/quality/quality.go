package quality

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-fdm/dsp/core"
)

const defaultMaxLag = 16

// Config holds comparison parameters.
type Config struct {
	SampleRate float64
	// Settle is the leading span in seconds excluded from the metrics.
	Settle float64
	// Tail is the trailing span in seconds excluded from the metrics.
	Tail float64
	// MaxLag bounds the cross-correlation lag search in samples.
	MaxLag int
}

// Result holds per-signal comparison metrics.
type Result struct {
	NRMSE       float64
	SNRDB       float64
	Correlation float64
	Lag         int
	MaxAbsError float64
	From, To    int
}

// Window returns the sample range [from, to) of an n-sample signal left after
// trimming Settle and Tail. to <= from means nothing is left.
func (c Config) Window(n int) (from, to int) {
	from, to = 0, n
	if c.SampleRate > 0 {
		from = samples(c.Settle, c.SampleRate)
		to -= samples(c.Tail, c.SampleRate)
	}
	return from, to
}

// Compare evaluates est against ref over the window left after trimming
// cfg.Settle and cfg.Tail.
func Compare(ref, est []float64, cfg Config) (Result, error) {
	if len(ref) != len(est) {
		return Result{}, fmt.Errorf("%w: reference %d samples, estimate %d", core.ErrShapeMismatch, len(ref), len(est))
	}

	from, to := cfg.Window(len(ref))
	if to <= from {
		return Result{}, fmt.Errorf("%w: empty comparison window [%d, %d)", core.ErrInvalidParameter, from, to)
	}

	r, e := ref[from:to], est[from:to]

	// A silent reference has no scale: exact silence scores 0, anything else +Inf.
	nrmse := 0.0
	switch {
	case RMS(r) != 0:
		var err error
		if nrmse, err = NRMSE(r, e); err != nil {
			return Result{}, err
		}
	case RMS(e) != 0:
		nrmse = math.Inf(1)
	}

	maxLag := cfg.MaxLag
	if maxLag <= 0 {
		maxLag = defaultMaxLag
	}
	lag, err := Lag(r, e, maxLag)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		NRMSE:       nrmse,
		SNRDB:       SNRDB(r, e),
		Correlation: stat.Correlation(r, e, nil),
		Lag:         lag,
		From:        from,
		To:          to,
	}
	for i := range r {
		res.MaxAbsError = math.Max(res.MaxAbsError, math.Abs(r[i]-e[i]))
	}
	return res, nil
}

// RMS returns the root-mean-square value of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(f64.DotProduct(x, x) / float64(len(x)))
}

// NRMSE returns rms(ref-est)/rms(ref).
func NRMSE(ref, est []float64) (float64, error) {
	if len(ref) != len(est) {
		return 0, fmt.Errorf("%w: %d vs %d samples", core.ErrShapeMismatch, len(ref), len(est))
	}
	if len(ref) == 0 {
		return 0, fmt.Errorf("%w: empty signals", core.ErrShapeMismatch)
	}

	norm := floats.Norm(ref, 2)
	if norm == 0 {
		return 0, fmt.Errorf("%w: silent reference", core.ErrInvalidParameter)
	}
	return floats.Distance(ref, est, 2) / norm, nil
}

// SNRDB returns 10*log10(power(ref)/power(ref-est)). Identical signals give +Inf.
func SNRDB(ref, est []float64) float64 {
	residual := make([]float64, len(ref))
	floats.SubTo(residual, ref, est)
	noise := f64.DotProduct(residual, residual)
	if noise == 0 {
		return math.Inf(1)
	}
	return core.LinearPowerToDB(f64.DotProduct(ref, ref) / noise)
}

// Lag returns the shift in samples, within ±maxLag, that maximizes the
// biased cross-correlation sum a[k]*b[k+lag]. A positive lag means b is
// delayed relative to a. Ties resolve toward zero.
func Lag(a, b []float64, maxLag int) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d samples", core.ErrShapeMismatch, len(a), len(b))
	}
	n := len(a)
	if n == 0 {
		return 0, fmt.Errorf("%w: empty signals", core.ErrShapeMismatch)
	}
	if maxLag >= n {
		maxLag = n - 1
	}

	best, bestLag := math.Inf(-1), 0
	for lag := -maxLag; lag <= maxLag; lag++ {
		var c float64
		if lag >= 0 {
			c = f64.DotProduct(a[:n-lag], b[lag:])
		} else {
			c = f64.DotProduct(a[-lag:], b[:n+lag])
		}
		if c > best || (c == best && abs(lag) < abs(bestLag)) {
			best, bestLag = c, lag
		}
	}
	return bestLag, nil
}

func samples(seconds, sampleRate float64) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Ceil(seconds*sampleRate - 1e-9))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
