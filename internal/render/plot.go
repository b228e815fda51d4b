package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-fdm/dsp/core"
)

// Format is an image format supported by gonum/plot.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat maps a case-insensitive name to a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatPNG, FormatSVG:
		return f, nil
	case "":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: unsupported image format %q", core.ErrInvalidParameter, name)
	}
}

// Series is one named trace sharing the figure's X axis.
type Series struct {
	Name string
	Y    []float64
}

// Figure is a line plot of several series over a common X axis.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	X      []float64
	Series []Series
	Width  vg.Length
	Height vg.Length
}

func (f Figure) build() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	p.Add(plotter.NewGrid())

	for i, s := range f.Series {
		if len(s.Y) != len(f.X) {
			return nil, fmt.Errorf("%w: series %q has %d points, axis has %d", core.ErrShapeMismatch, s.Name, len(s.Y), len(f.X))
		}
		pts := make(plotter.XYs, len(f.X))
		for k := range pts {
			pts[k].X = f.X[k]
			pts[k].Y = s.Y[k]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("render: series %q: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		if s.Name != "" {
			p.Legend.Add(s.Name, line)
		}
	}
	p.Legend.Top = true
	return p, nil
}

func (f Figure) size() (vg.Length, vg.Length) {
	w, h := f.Width, f.Height
	if w <= 0 {
		w = 8 * vg.Inch
	}
	if h <= 0 {
		h = 4 * vg.Inch
	}
	return w, h
}

// WriteTo renders the figure into w in the given format.
func (f Figure) WriteTo(w io.Writer, format Format) error {
	p, err := f.build()
	if err != nil {
		return err
	}
	width, height := f.size()
	wt, err := p.WriterTo(width, height, string(format))
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save renders the figure to dir/name.<format> and returns the path.
func (f Figure) Save(dir, name string, format Format) (string, error) {
	path := filepath.Join(dir, name+"."+string(format))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := f.WriteTo(file, format); err != nil {
		_ = file.Close()
		return "", err
	}
	return path, file.Close()
}
