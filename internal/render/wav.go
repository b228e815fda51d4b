package render

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-fdm/dsp/core"
	"github.com/cwbudde/algo-fdm/dsp/signal"
)

const (
	wavBitDepth  = 16
	wavPCMFormat = 1
	// wavPeak leaves headroom below full scale.
	wavPeak = 0.9
)

// WriteWAV stores samples as mono 16-bit PCM at sampleRate, peak-normalized
// to 0.9 of full scale. The sample rate is rounded to whole Hz.
func WriteWAV(path string, samples []float64, sampleRate float64) error {
	if !core.IsPositiveFinite(sampleRate) {
		return fmt.Errorf("%w: wav sample rate must be > 0: %v", core.ErrInvalidParameter, sampleRate)
	}
	norm, err := signal.Normalize(samples, wavPeak)
	if err != nil {
		return err
	}

	rate := int(math.Round(sampleRate))
	maxVal := float64(int(1)<<(wavBitDepth-1) - 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, len(norm)),
		SourceBitDepth: wavBitDepth,
	}
	for i, v := range norm {
		buf.Data[i] = int(math.Round(v * maxVal))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, rate, wavBitDepth, 1, wavPCMFormat)
	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("render: finalize %s: %w", path, err)
	}
	return f.Close()
}
