package signal

import (
	"fmt"

	"github.com/cwbudde/algo-fdm/dsp/core"
)

// Matrix is an N×L block of time-domain rows sharing one time base.
// Rows are never resized after construction.
type Matrix [][]float64

// NewMatrix allocates a zeroed rows×cols matrix.
func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	backing := make([]float64, rows*cols)
	for i := range m {
		m[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return m
}

// Rows returns N.
func (m Matrix) Rows() int { return len(m) }

// Cols returns L, or 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Row returns row i.
func (m Matrix) Row(i int) []float64 { return m[i] }

// CheckShape verifies every row has the same length and returns (N, L).
func (m Matrix) CheckShape() (int, int, error) {
	cols := m.Cols()
	for i, row := range m {
		if len(row) != cols {
			return 0, 0, fmt.Errorf("%w: row %d has %d samples, row 0 has %d", core.ErrShapeMismatch, i, len(row), cols)
		}
	}
	return len(m), cols, nil
}

// SameShape reports an error unless a and b are both N×L with equal N and L.
func SameShape(a, b Matrix) error {
	ra, ca, err := a.CheckShape()
	if err != nil {
		return err
	}
	rb, cb, err := b.CheckShape()
	if err != nil {
		return err
	}
	if ra != rb || ca != cb {
		return fmt.Errorf("%w: %dx%d vs %dx%d", core.ErrShapeMismatch, ra, ca, rb, cb)
	}
	return nil
}
