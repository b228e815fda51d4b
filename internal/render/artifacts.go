package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-fdm/dsp/core"
	"github.com/cwbudde/algo-fdm/dsp/signal"
	"github.com/cwbudde/algo-fdm/fdm"
)

// Options selects which artifacts WriteAll produces.
type Options struct {
	Dir    string
	Format Format
	// ZoomChannel is the channel shown in the original-vs-recovered overlay.
	ZoomChannel int
	// ZoomSeconds limits the overlay's time axis; 0 shows the whole run.
	ZoomSeconds float64
	WAV         bool
	CSV         bool
}

// WriteAll renders the standard artifact set of res into opts.Dir and
// returns the written paths in creation order.
func WriteAll(res *fdm.Result, opts Options) ([]string, error) {
	if res == nil {
		return nil, fmt.Errorf("%w: no result to render", core.ErrInvalidParameter)
	}
	if opts.ZoomChannel < 0 || opts.ZoomChannel >= res.Messages.Rows() {
		return nil, fmt.Errorf("%w: zoom channel %d of %d", core.ErrInvalidParameter, opts.ZoomChannel, res.Messages.Rows())
	}
	format := opts.Format
	if format == "" {
		format = FormatPNG
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, err
	}

	ms := make([]float64, len(res.Time))
	for k, t := range res.Time {
		ms[k] = t * 1e3
	}

	var paths []string
	save := func(f Figure, name string) error {
		p, err := f.Save(opts.Dir, name, format)
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		paths = append(paths, p)
		return nil
	}

	figures := []struct {
		name string
		fig  Figure
	}{
		{"messages", Figure{Title: "Messages", XLabel: "Time (ms)", YLabel: "Amplitude", X: ms, Series: rows(res, res.Messages, "message")}},
		{"composite", Figure{Title: "FDM composite", XLabel: "Time (ms)", YLabel: "Amplitude", X: ms, Series: []Series{{Name: "transmitted", Y: res.Transmitted}}}},
		{"recovered", Figure{Title: "Recovered messages (" + string(res.Mode) + ")", XLabel: "Time (ms)", YLabel: "Amplitude", X: ms, Series: rows(res, res.Demodulated, "recovered")}},
		{fmt.Sprintf("zoom_ch%d", opts.ZoomChannel), zoomFigure(res, ms, opts)},
		{"spectrum", Figure{Title: "Composite spectrum", XLabel: "Frequency (Hz)", YLabel: "Magnitude", X: res.Spectrum.Freqs, Series: []Series{{Name: "|X(f)|", Y: res.Spectrum.Magnitudes}}}},
	}
	for _, f := range figures {
		if err := save(f.fig, f.name); err != nil {
			return paths, err
		}
	}

	if opts.WAV {
		wavs := []Series{{Name: "composite", Y: res.Transmitted}}
		for i, row := range res.Demodulated {
			wavs = append(wavs, Series{Name: fmt.Sprintf("recovered_ch%d", i), Y: row})
		}
		for _, s := range wavs {
			p := filepath.Join(opts.Dir, s.Name+".wav")
			if err := WriteWAV(p, s.Y, res.Config.SampleRate); err != nil {
				return paths, err
			}
			paths = append(paths, p)
		}
	}

	if opts.CSV {
		cols := rows(res, res.Messages, "message")
		cols = append(cols, Series{Name: "composite", Y: res.Composite}, Series{Name: "transmitted", Y: res.Transmitted})
		cols = append(cols, rows(res, res.Demodulated, "recovered")...)
		p := filepath.Join(opts.Dir, "signals.csv")
		if err := SaveCSV(p, res.Time, cols); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func rows(res *fdm.Result, m signal.Matrix, prefix string) []Series {
	out := make([]Series, m.Rows())
	for i := range out {
		out[i] = Series{Name: fmt.Sprintf("%s %d (%g Hz)", prefix, i, res.Config.Channels[i].MessageHz), Y: m.Row(i)}
	}
	return out
}

// zoomFigure overlays one channel's message and recovery, cut to the first
// opts.ZoomSeconds of the run when that is positive.
func zoomFigure(res *fdm.Result, ms []float64, opts Options) Figure {
	i := opts.ZoomChannel
	n := len(ms)
	if opts.ZoomSeconds > 0 && n > 0 {
		n = res.TimeBase.Index(opts.ZoomSeconds) + 1
	}
	return Figure{
		Title:  fmt.Sprintf("Channel %d: original vs recovered", i),
		XLabel: "Time (ms)",
		YLabel: "Amplitude",
		X:      ms[:n],
		Series: []Series{
			{Name: "original", Y: res.Messages.Row(i)[:n]},
			{Name: "recovered", Y: res.Demodulated.Row(i)[:n]},
		},
	}
}
