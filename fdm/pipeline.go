package fdm

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cwbudde/algo-fdm/dsp/signal"
	"github.com/cwbudde/algo-fdm/dsp/spectrum"
	"github.com/cwbudde/algo-fdm/dsp/window"
	"github.com/cwbudde/algo-fdm/measure/quality"
)

// SettleSeconds is the span excluded from recovery metrics at each end of
// the run, where the zero-phase filter's edge transients live. Runs shorter
// than four times this span exclude a quarter of their length instead.
const SettleSeconds = 0.002

// Report summarizes recovery of one channel.
type Report struct {
	Channel   int
	MessageHz float64
	CarrierHz float64
	Quality   quality.Result
	// CarrierLevel is the composite amplitude at the carrier frequency,
	// ideally zero for a suppressed carrier.
	CarrierLevel float64
	// SidebandLevel is the composite amplitude at carrier + message, ideally
	// one half.
	SidebandLevel float64
}

// Result holds every intermediate of one pipeline run. Nothing in it is
// modified after Run returns.
type Result struct {
	Config   Config
	Mode     Mode
	TimeBase signal.TimeBase
	Time     []float64

	Messages  signal.Matrix
	Carriers  signal.Matrix
	Modulated signal.Matrix
	// Composite is the clean multiplex; Transmitted is what the receiver
	// sees and equals Composite when noise is disabled.
	Composite   []float64
	Transmitted []float64

	Lowpass Filter
	// Bands and Isolated are only set in ModeBandpass.
	Bands    []Band
	Isolated signal.Matrix

	Demodulated signal.Matrix
	Spectrum    spectrum.Spectrum
	Reports     []Report
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger attaches a logger for stage-level debug output.
func WithLogger(l *log.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Pipeline runs synthesis, modulation, analysis, isolation and
// demodulation in order. A Pipeline holds no per-run state and may be
// reused.
type Pipeline struct {
	logger *log.Logger
}

// NewPipeline returns a Pipeline. Without WithLogger it logs nowhere.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{logger: log.New(io.Discard)}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Run executes the pipeline with a silent Pipeline.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	return NewPipeline().Run(ctx, cfg)
}

// Run validates cfg and executes every stage. It stops at the first error
// and checks ctx between stages.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (*Result, error) {
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, _ := ParseMode(string(cfg.Receiver.Mode))

	res := &Result{Config: cfg, Mode: mode}
	stages := []struct {
		name string
		fn   func(context.Context, *Result) error
	}{
		{"synthesize", synthesizeStage},
		{"modulate", modulateStage},
		{"noise", noiseStage},
		{"analyze", analyzeStage},
		{"design", designStage},
		{"demodulate", demodulateStage},
		{"report", reportStage},
	}

	p.logger.Debug("pipeline start", "channels", len(cfg.Channels), "fs", cfg.SampleRate, "duration", cfg.Duration, "mode", mode)
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := st.fn(ctx, res); err != nil {
			return nil, fmt.Errorf("fdm: %s: %w", st.name, err)
		}
		p.logger.Debug("stage done", "stage", st.name)
	}
	return res, nil
}

func synthesizeStage(_ context.Context, res *Result) error {
	gen := res.Config.Generator()
	tb, err := gen.TimeBase()
	if err != nil {
		return err
	}
	res.TimeBase = tb
	res.Time = tb.Samples()

	if res.Messages, err = gen.Synthesize(MessageFrequencies(res.Config.Channels), signal.WaveformSine); err != nil {
		return err
	}
	res.Carriers, err = gen.Synthesize(CarrierFrequencies(res.Config.Channels), signal.WaveformCosine)
	return err
}

func modulateStage(_ context.Context, res *Result) error {
	var err error
	if res.Modulated, err = Modulate(res.Messages, res.Carriers); err != nil {
		return err
	}
	res.Composite, err = Multiplex(res.Modulated)
	return err
}

func noiseStage(_ context.Context, res *Result) error {
	n := res.Config.Noise
	if !n.Enabled {
		res.Transmitted = res.Composite
		return nil
	}
	var err error
	res.Transmitted, err = res.Config.Generator().AddNoise(res.Composite, n.SNRDB)
	return err
}

func analyzeStage(_ context.Context, res *Result) error {
	win, err := window.ParseType(res.Config.Spectrum.Window)
	if err != nil {
		return err
	}
	a, err := spectrum.NewAnalyzer(res.Config.SampleRate,
		spectrum.WithFFTSize(res.Config.Spectrum.FFTSize),
		spectrum.WithWindow(win))
	if err != nil {
		return err
	}
	res.Spectrum, err = a.Analyze(res.Transmitted)
	return err
}

func designStage(_ context.Context, res *Result) error {
	cfg := res.Config
	var err error
	if res.Lowpass, err = DesignLowpass(cfg.Filter.CutoffHz, cfg.Filter.Order, cfg.SampleRate); err != nil {
		return err
	}
	if res.Mode != ModeBandpass {
		return nil
	}
	res.Bands, err = DesignBands(cfg.Channels, cfg.BandGuard(), cfg.Receiver.BandOrder, cfg.SampleRate)
	return err
}

func demodulateStage(ctx context.Context, res *Result) error {
	rx, err := NewReceiver(res.Transmitted, res.Carriers, res.Lowpass, res.Bands)
	if err != nil {
		return err
	}

	if res.Bands != nil {
		res.Isolated = make(signal.Matrix, rx.Channels())
		for i := range res.Isolated {
			if res.Isolated[i], err = rx.Isolated(i); err != nil {
				return err
			}
		}
	}

	res.Demodulated, err = rx.DemodulateAll(ctx, res.Config.Workers)
	return err
}

func reportStage(_ context.Context, res *Result) error {
	cfg := res.Config
	settle := min(SettleSeconds, cfg.Duration/4)
	qc := quality.Config{SampleRate: cfg.SampleRate, Settle: settle, Tail: settle}
	// Runs too short to trim are scored over every sample.
	if from, to := qc.Window(len(res.Composite)); to <= from {
		qc.Settle, qc.Tail = 0, 0
	}

	res.Reports = make([]Report, len(cfg.Channels))
	for i, ch := range cfg.Channels {
		q, err := quality.Compare(res.Messages[i], res.Demodulated[i], qc)
		if err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
		levels, err := spectrum.ToneLevels(res.Composite, []float64{ch.CarrierHz, ch.CarrierHz + ch.MessageHz}, cfg.SampleRate)
		if err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
		res.Reports[i] = Report{
			Channel:       i,
			MessageHz:     ch.MessageHz,
			CarrierHz:     ch.CarrierHz,
			Quality:       q,
			CarrierLevel:  levels[0],
			SidebandLevel: levels[1],
		}
	}
	return nil
}
