package pass

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-fdm/dsp/filter/biquad"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func magDB(sections []biquad.Coefficients, freq, sr float64) float64 {
	return 20 * math.Log10(cmplx.Abs(biquad.CascadeResponse(sections, freq, sr)))
}

func assertFiniteCoefficients(t *testing.T, c biquad.Coefficients) {
	t.Helper()
	v := []float64{c.B0, c.B1, c.B2, c.A1, c.A2}
	for i := range v {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			t.Fatalf("invalid coefficient[%d]=%v", i, v[i])
		}
	}
}
