package quality

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-fdm/dsp/core"
	"github.com/cwbudde/algo-fdm/internal/testutil"
)

func TestNRMSE(t *testing.T) {
	ref := testutil.DeterministicSine(100, 10000, 1, 1000)

	got, err := NRMSE(ref, ref)
	if err != nil {
		t.Fatalf("NRMSE() error = %v", err)
	}
	if got != 0 {
		t.Fatalf("NRMSE(ref, ref) = %v, want 0", got)
	}

	half := make([]float64, len(ref))
	for i := range ref {
		half[i] = 0.5 * ref[i]
	}
	got, err = NRMSE(ref, half)
	if err != nil {
		t.Fatalf("NRMSE() error = %v", err)
	}
	if math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("NRMSE(ref, ref/2) = %v, want 0.5", got)
	}
}

func TestNRMSEErrors(t *testing.T) {
	if _, err := NRMSE([]float64{1}, []float64{1, 2}); !errors.Is(err, core.ErrShapeMismatch) {
		t.Fatalf("length mismatch error = %v", err)
	}
	if _, err := NRMSE([]float64{0, 0}, []float64{1, 2}); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("silent reference error = %v", err)
	}
}

func TestRMS(t *testing.T) {
	x := testutil.DeterministicSine(50, 10000, 2, 10000)
	if got := RMS(x); math.Abs(got-math.Sqrt2) > 1e-6 {
		t.Fatalf("RMS = %v, want sqrt(2)", got)
	}
	if RMS(nil) != 0 {
		t.Fatal("RMS(nil) != 0")
	}
}

func TestLag(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := make([]float64, 400)
	for i := range a {
		a[i] = rng.NormFloat64()
	}
	for _, shift := range []int{-5, 0, 3, 9} {
		b := make([]float64, len(a))
		for i := range b {
			j := i - shift
			if j >= 0 && j < len(a) {
				b[i] = a[j]
			}
		}
		got, err := Lag(a, b, 12)
		if err != nil {
			t.Fatalf("Lag() error = %v", err)
		}
		if got != shift {
			t.Fatalf("Lag(shift=%d) = %d", shift, got)
		}
	}
}

func TestSNRDB(t *testing.T) {
	ref := []float64{1, -1, 1, -1}
	est := []float64{0.9, -0.9, 0.9, -0.9}
	if got := SNRDB(ref, est); math.Abs(got-20) > 1e-9 {
		t.Fatalf("SNRDB = %v, want 20", got)
	}
	if !math.IsInf(SNRDB(ref, ref), 1) {
		t.Fatal("expected +Inf for identical signals")
	}
}

func TestCompareWindow(t *testing.T) {
	ref := testutil.DeterministicSine(120, 50000, 1, 500)
	est := append([]float64(nil), ref...)
	for i := range 100 {
		est[i] = 0
	}

	res, err := Compare(ref, est, Config{SampleRate: 50000, Settle: 0.002})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if res.From != 100 || res.To != 500 {
		t.Fatalf("window = [%d, %d), want [100, 500)", res.From, res.To)
	}
	if res.NRMSE != 0 || res.Lag != 0 || res.MaxAbsError != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if math.Abs(res.Correlation-1) > 1e-12 {
		t.Fatalf("Correlation = %v, want 1", res.Correlation)
	}

	if _, err := Compare(ref, est, Config{SampleRate: 50000, Settle: 0.006, Tail: 0.005}); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("empty window error = %v", err)
	}
}

func TestConfigWindowTrimsBothEnds(t *testing.T) {
	cfg := Config{SampleRate: 50000, Settle: 0.002, Tail: 0.002}
	if from, to := cfg.Window(500); from != 100 || to != 400 {
		t.Fatalf("Window(500) = [%d, %d), want [100, 400)", from, to)
	}
	if from, to := cfg.Window(150); to > from {
		t.Fatalf("Window(150) = [%d, %d), want empty", from, to)
	}
	if from, to := (Config{Settle: 1}).Window(10); from != 0 || to != 10 {
		t.Fatalf("window without sample rate = [%d, %d), want [0, 10)", from, to)
	}
}

func TestCompareSilentReference(t *testing.T) {
	res, err := Compare([]float64{0, 0}, []float64{0, 0}, Config{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if res.NRMSE != 0 {
		t.Fatalf("NRMSE = %v, want 0 for silent pair", res.NRMSE)
	}

	res, err = Compare([]float64{0, 0}, []float64{0, 0.1}, Config{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !math.IsInf(res.NRMSE, 1) {
		t.Fatalf("NRMSE = %v, want +Inf", res.NRMSE)
	}
}
