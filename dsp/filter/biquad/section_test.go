package biquad

import (
	"math"
	"testing"
)

// tolerance for floating-point comparisons.
const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func smoothing() Coefficients {
	return Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
}

func twoSectionCoeffs() []Coefficients {
	return []Coefficients{
		smoothing(),
		{B0: 0.1, B1: 0.2, B2: 0.1, A1: -0.5, A2: 0.1},
	}
}

func TestNewSection(t *testing.T) {
	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 4, A2: 5}
	s := NewSection(c)
	if s.Coefficients != c {
		t.Fatalf("coefficients mismatch: got %v, want %v", s.Coefficients, c)
	}
	if st := s.State(); st != [2]float64{0, 0} {
		t.Fatalf("initial state not zero: %v", st)
	}
}

func TestProcessSample_DFIIT(t *testing.T) {
	// Hand-traced with x = [1, 0, 0, 0]:
	// n=0: y=0.25, d0=0.55, d1=0.24
	// n=1: y=0.55, d0=0.35, d1=-0.022
	// n=2: y=0.35, d0=0.048, d1=-0.014
	// n=3: y=0.048
	s := NewSection(smoothing())

	want := []float64{0.25, 0.55, 0.35, 0.048}
	for i, w := range want {
		var x float64
		if i == 0 {
			x = 1
		}
		y := s.ProcessSample(x)
		if !almostEqual(y, w, eps) {
			t.Errorf("sample %d: got %.15f, want %.15f", i, y, w)
		}
	}
}

func TestProcessBlock_MatchesSample(t *testing.T) {
	for _, n := range []int{1, 7, 8} {
		input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}[:n]

		s1 := NewSection(smoothing())
		ref := make([]float64, n)
		for i, x := range input {
			ref[i] = s1.ProcessSample(x)
		}

		s2 := NewSection(smoothing())
		block := append([]float64(nil), input...)
		s2.ProcessBlock(block)

		for i := range block {
			if !almostEqual(block[i], ref[i], eps) {
				t.Errorf("n=%d sample %d: ProcessBlock=%.15f, ProcessSample=%.15f", n, i, block[i], ref[i])
			}
		}
		if s1.State() != s2.State() {
			t.Errorf("n=%d: state mismatch %v vs %v", n, s1.State(), s2.State())
		}
	}
}

func TestState_SaveRestore(t *testing.T) {
	s := NewSection(smoothing())
	s.ProcessSample(1)
	saved := s.State()
	a := s.ProcessSample(0.3)

	s.SetState(saved)
	b := s.ProcessSample(0.3)
	if a != b {
		t.Fatalf("restored output %v, want %v", b, a)
	}

	s.Reset()
	if s.State() != [2]float64{0, 0} {
		t.Fatalf("Reset left state %v", s.State())
	}
}

func TestDCGain(t *testing.T) {
	// 0.25+0.5+0.25 = 1, 1-0.2+0.04 = 0.84
	if got := smoothing().DCGain(); !almostEqual(got, 1/0.84, eps) {
		t.Fatalf("DCGain = %v, want %v", got, 1/0.84)
	}
}

func TestChain_MatchesManualCascade(t *testing.T) {
	coeffs := twoSectionCoeffs()
	s1 := NewSection(coeffs[0])
	s2 := NewSection(coeffs[1])
	chain := NewChain(coeffs)

	input := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8}
	block := append([]float64(nil), input...)
	NewChain(coeffs).ProcessBlock(block)

	for i, x := range input {
		ref := s2.ProcessSample(s1.ProcessSample(x))
		if got := chain.ProcessSample(x); !almostEqual(got, ref, eps) {
			t.Errorf("sample %d: chain=%.15f, ref=%.15f", i, got, ref)
		}
		if !almostEqual(block[i], ref, eps) {
			t.Errorf("sample %d: block=%.15f, ref=%.15f", i, block[i], ref)
		}
	}
}

func TestChain_Order(t *testing.T) {
	c := NewChain([]Coefficients{smoothing(), {B0: 0.5, B1: 0.5, A1: 0.1}})
	if c.NumSections() != 2 {
		t.Fatalf("NumSections = %d, want 2", c.NumSections())
	}
	if c.Order() != 3 {
		t.Fatalf("Order = %d, want 3", c.Order())
	}
	if c.Section(1).B1 != 0.5 {
		t.Fatalf("Section(1) = %+v", c.Section(1).Coefficients)
	}
}

func TestChain_StateSaveRestore(t *testing.T) {
	c := NewChain(twoSectionCoeffs())
	c.ProcessSample(1)
	saved := c.State()
	a := c.ProcessSample(0.7)
	c.SetState(saved)
	if b := c.ProcessSample(0.7); a != b {
		t.Fatalf("restored output %v, want %v", b, a)
	}
	c.Reset()
	for i, st := range c.State() {
		if st != [2]float64{0, 0} {
			t.Fatalf("section %d state %v after Reset", i, st)
		}
	}
}
