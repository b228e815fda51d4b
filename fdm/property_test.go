package fdm

import (
	"context"
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/cwbudde/algo-fdm/dsp/signal"
)

func TestRunShapeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 4).Draw(t, "channels")
		fs := rapid.SampledFrom([]float64{40000, 44100, 48000, 50000}).Draw(t, "fs")
		duration := rapid.Float64Range(0.004, 0.02).Draw(t, "duration")

		cfg := DefaultConfig()
		cfg.SampleRate = fs
		cfg.Duration = duration
		cfg.Channels = make([]Channel, n)
		for i := range cfg.Channels {
			cfg.Channels[i] = Channel{
				MessageHz: rapid.Float64Range(50, 600).Draw(t, "message"),
				CarrierHz: 3000 * float64(i+1),
			}
		}

		res, err := Run(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}

		want := int(math.Floor(duration*fs + 1e-9))
		if len(res.Composite) != want || len(res.Transmitted) != want {
			t.Fatalf("composite length %d, want %d", len(res.Composite), want)
		}
		for name, m := range map[string]signal.Matrix{
			"messages":    res.Messages,
			"carriers":    res.Carriers,
			"modulated":   res.Modulated,
			"demodulated": res.Demodulated,
		} {
			rows, cols, err := m.CheckShape()
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if rows != n || cols != want {
				t.Fatalf("%s is %dx%d, want %dx%d", name, rows, cols, n, want)
			}
		}
		if len(res.Reports) != n {
			t.Fatalf("%d reports for %d channels", len(res.Reports), n)
		}
	})
}

func TestMultiplexOrderProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rows := rapid.IntRange(1, 6).Draw(t, "rows")
		cols := rapid.IntRange(1, 64).Draw(t, "cols")

		m := signal.NewMatrix(rows, cols)
		for i := range m {
			for k := range m[i] {
				m[i][k] = rapid.Float64Range(-1, 1).Draw(t, "sample")
			}
		}
		perm := rapid.Permutation(m).Draw(t, "order")

		a, err := Multiplex(m)
		if err != nil {
			t.Fatalf("Multiplex: %v", err)
		}
		b, err := Multiplex(perm)
		if err != nil {
			t.Fatalf("Multiplex: %v", err)
		}
		for k := range a {
			if math.Abs(a[k]-b[k]) > 1e-12 {
				t.Fatalf("sample %d: %v vs %v", k, a[k], b[k])
			}
		}
	})
}
