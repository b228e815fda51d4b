package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fdm/dsp/core"
)

type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	buf.data = core.EnsureLen(buf.data, 2*n)
	return buf.data[:n], buf.data[n : 2*n], buf
}

// Magnitude returns |X[k]| for each complex bin. Scratch buffers are pooled,
// so in steady state this allocates only the output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	scratchPool.Put(buf)
	return out
}

// MagnitudeDB converts linear amplitudes to dB with the given floor.
func MagnitudeDB(mag []float64, floorDB float64) []float64 {
	out := make([]float64, len(mag))
	for i, m := range mag {
		db := core.LinearToDB(m)
		if !(db >= floorDB) {
			db = floorDB
		}
		out[i] = db
	}
	return out
}
