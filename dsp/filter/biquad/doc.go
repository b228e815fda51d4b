// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Multiple sections can be
// cascaded via [Chain] for higher-order filters such as the Butterworth
// low-pass used by the FDM demodulator.
//
// [Polynomial] expands a cascade into the equivalent numerator/denominator
// coefficient vectors, and [SteadyState] computes the per-section initial
// conditions used for zero-phase filtering.
//
// Coefficient design lives in dsp/filter/design/pass.
package biquad
