package core_test

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-fdm/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithDuration(0.25),
	)

	fmt.Printf("sampleRate=%.0f duration=%.2f nyquist=%.0f\n", cfg.SampleRate, cfg.Duration, cfg.Nyquist())

	// Output:
	// sampleRate=44100 duration=0.25 nyquist=22050
}

func ExampleErrInvalidParameter() {
	err := fmt.Errorf("%w: cutoff 30000 Hz above Nyquist", core.ErrInvalidParameter)
	fmt.Println(errors.Is(err, core.ErrInvalidParameter))

	// Output:
	// true
}
