// Package spectrum computes one-sided amplitude spectra of real signals and
// single-bin tone levels.
//
// Analyzer runs either an exact-length real transform (gonum dsp/fourier)
// or a zero-padded power-of-two transform through an algo-fft plan. Results
// are scaled so that a sinusoid of amplitude A centred on a bin reads A.
// Nothing in this package feeds back into signal processing; it only
// inspects buffers.
package spectrum
