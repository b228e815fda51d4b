package fdm

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fdm/dsp/core"
	"github.com/cwbudde/algo-fdm/dsp/signal"
)

// Modulate returns the DSB-SC matrix Mod[i][k] = messages[i][k]·carriers[i][k].
func Modulate(messages, carriers signal.Matrix) (signal.Matrix, error) {
	if err := signal.SameShape(messages, carriers); err != nil {
		return nil, err
	}
	if messages.Rows() == 0 {
		return nil, fmt.Errorf("%w: no channels to modulate", core.ErrShapeMismatch)
	}

	out := signal.NewMatrix(messages.Rows(), messages.Cols())
	for i := range out {
		vecmath.MulBlock(out[i], messages[i], carriers[i])
	}
	return out, nil
}

// Multiplex sums the modulated rows into the composite x[k] = Σ_i Mod[i][k].
// With a single row the composite is an exact copy of that row.
func Multiplex(modulated signal.Matrix) ([]float64, error) {
	rows, cols, err := modulated.CheckShape()
	if err != nil {
		return nil, err
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: nothing to multiplex", core.ErrShapeMismatch)
	}

	out := make([]float64, cols)
	copy(out, modulated[0])
	for _, row := range modulated[1:] {
		vecmath.AddBlockInPlace(out, row)
	}
	return out, nil
}
