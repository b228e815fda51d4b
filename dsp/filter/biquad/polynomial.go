package biquad

// Polynomial expands a cascade into the transfer function
// B(z)/A(z) = (b[0] + b[1] z^-1 + ...) / (a[0] + a[1] z^-1 + ...), a[0] = 1.
//
// Both vectors have length order+1. For high orders the expanded form is
// numerically fragile; filtering should always run on the sections.
func Polynomial(sections []Coefficients) (b, a []float64) {
	b = []float64{1}
	a = []float64{1}
	for i := range sections {
		s := sections[i]
		if s.IsFirstOrder() {
			b = polyMul(b, []float64{s.B0, s.B1})
			a = polyMul(a, []float64{1, s.A1})
			continue
		}
		b = polyMul(b, []float64{s.B0, s.B1, s.B2})
		a = polyMul(a, []float64{1, s.A1, s.A2})
	}
	return b, a
}

func polyMul(p, q []float64) []float64 {
	out := make([]float64, len(p)+len(q)-1)
	for i, pv := range p {
		for j, qv := range q {
			out[i+j] += pv * qv
		}
	}
	return out
}

// SteadyState returns the delay-line state of each section that a cascade
// settles into after a long run of unit-valued input. Scaling the result by
// the first input sample starts the cascade without a step transient.
func SteadyState(sections []Coefficients) [][2]float64 {
	out := make([][2]float64, len(sections))
	scale := 1.0
	for i := range sections {
		s := sections[i]
		g := s.DCGain()
		d1 := s.B2 - s.A2*g
		d0 := s.B1 - s.A1*g + d1
		out[i] = [2]float64{d0 * scale, d1 * scale}
		scale *= g
	}
	return out
}
