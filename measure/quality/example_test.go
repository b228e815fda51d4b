package quality_test

import (
	"fmt"

	"github.com/cwbudde/algo-fdm/measure/quality"
)

func ExampleNRMSE() {
	ref := []float64{1, -1, 1, -1}
	est := []float64{0.9, -0.9, 0.9, -0.9}

	nrmse, err := quality.NRMSE(ref, est)
	if err != nil {
		panic(err)
	}
	fmt.Printf("nrmse=%.2f snr=%.1f dB\n", nrmse, quality.SNRDB(ref, est))
	// Output:
	// nrmse=0.10 snr=20.0 dB
}
