// Package fdm implements a frequency-division multiplexing link over
// in-memory buffers.
//
// Each channel's message sin(2π·fm·t) modulates its own carrier
// cos(2π·fc·t) by plain multiplication (double-sideband, suppressed
// carrier). The modulated rows are summed into one composite signal. The
// receiver recovers channel i by multiplying the composite with 2·carrier_i
// and running a Butterworth low-pass forward and backward, so the estimate
// lines up sample for sample with the original message.
//
// Two receiver modes exist. ModeDirect feeds the full composite to every
// demodulator and relies on the low-pass to reject the other channels'
// products after mixing. ModeBandpass first isolates each channel's band
// with a zero-phase Butterworth band-pass. Both recover the reference
// scenario; they diverge when channels are packed so tightly that a mixing
// image of a neighbour lands below the low-pass cutoff, which Validate
// rejects in direct mode.
//
// A cutoff at or below a message frequency is not an error for Demodulate:
// the message is attenuated and recovery quality degrades silently.
// Config.Validate rejects such a cutoff before a pipeline run.
package fdm
