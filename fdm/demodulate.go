package fdm

import (
	"context"
	"fmt"
	"runtime"

	"github.com/cwbudde/algo-vecmath"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-fdm/dsp/core"
	"github.com/cwbudde/algo-fdm/dsp/filter/zerophase"
	"github.com/cwbudde/algo-fdm/dsp/signal"
)

// Mix returns 2·x[k]·carrier[k]. The factor 2 restores the message
// amplitude halved by the product of two cosines.
func Mix(x, carrier []float64) ([]float64, error) {
	if len(x) != len(carrier) {
		return nil, fmt.Errorf("%w: signal %d samples, carrier %d", core.ErrShapeMismatch, len(x), len(carrier))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: empty signal", core.ErrShapeMismatch)
	}

	out := make([]float64, len(x))
	vecmath.MulBlock(out, x, carrier)
	vecmath.ScaleBlock(out, out, 2)
	return out, nil
}

// Demodulate mixes x down with carrier and low-passes the product
// zero-phase. The cutoff is not checked against the message frequency; a
// cutoff below it attenuates the message instead of failing.
func Demodulate(x, carrier []float64, lp Filter) ([]float64, error) {
	mixed, err := Mix(x, carrier)
	if err != nil {
		return nil, err
	}
	return zerophase.Filter(lp.Sections, mixed)
}

// Isolate runs a channel band-pass over x zero-phase.
func Isolate(x []float64, b Band) ([]float64, error) {
	return zerophase.Filter(b.Sections, x)
}

// Receiver recovers every channel from one received composite. All inputs
// are shared read-only, so DemodulateChannel may run concurrently for
// different channels.
type Receiver struct {
	received []float64
	carriers signal.Matrix
	lowpass  Filter
	bands    []Band
}

// NewReceiver binds the received composite to the carrier matrix and the
// low-pass. bands is nil for direct demodulation; otherwise it holds one
// isolation band per carrier row.
func NewReceiver(received []float64, carriers signal.Matrix, lowpass Filter, bands []Band) (*Receiver, error) {
	rows, cols, err := carriers.CheckShape()
	if err != nil {
		return nil, err
	}
	if rows == 0 || cols != len(received) {
		return nil, fmt.Errorf("%w: %d carriers of %d samples for a %d-sample composite",
			core.ErrShapeMismatch, rows, cols, len(received))
	}
	if bands != nil && len(bands) != rows {
		return nil, fmt.Errorf("%w: %d isolation bands for %d channels", core.ErrShapeMismatch, len(bands), rows)
	}
	if len(lowpass.Sections) == 0 {
		return nil, fmt.Errorf("%w: receiver needs a designed low-pass", core.ErrInvalidParameter)
	}

	return &Receiver{received: received, carriers: carriers, lowpass: lowpass, bands: bands}, nil
}

// Channels returns the number of channels the receiver can recover.
func (r *Receiver) Channels() int { return r.carriers.Rows() }

// Isolated returns the band-limited input of channel i, or the full
// composite when the receiver has no isolation bands.
func (r *Receiver) Isolated(i int) ([]float64, error) {
	if i < 0 || i >= r.Channels() {
		return nil, fmt.Errorf("%w: channel %d of %d", core.ErrInvalidParameter, i, r.Channels())
	}
	if r.bands == nil {
		return r.received, nil
	}
	return Isolate(r.received, r.bands[i])
}

// DemodulateChannel recovers the baseband estimate of channel i.
func (r *Receiver) DemodulateChannel(i int) ([]float64, error) {
	x, err := r.Isolated(i)
	if err != nil {
		return nil, err
	}
	return Demodulate(x, r.carriers[i], r.lowpass)
}

// DemodulateAll recovers every channel, running at most workers channels
// at once (workers <= 0 means GOMAXPROCS). Each worker writes only its own
// row of the result. The first failure cancels the remaining channels.
func (r *Receiver) DemodulateAll(ctx context.Context, workers int) (signal.Matrix, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make(signal.Matrix, r.Channels())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range out {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := r.DemodulateChannel(i)
			if err != nil {
				return fmt.Errorf("channel %d: %w", i, err)
			}
			out[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
