// Package quality measures how closely a recovered signal matches its
// reference: normalized RMS error, SNR, correlation and residual time lag.
//
// The FDM demodulator is evaluated with these metrics after discarding the
// filter settling window at the start of the buffer.
package quality
