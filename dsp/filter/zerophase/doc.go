// Package zerophase runs a biquad cascade forward and then backward over a
// whole buffer so that the net phase response is zero and no time shift is
// introduced. The magnitude response is the square of the cascade's.
//
// Edges are handled the usual way for offline forward-backward filtering:
// the input is extended at both ends by an odd reflection about its end
// samples, and each pass starts from the cascade's steady state for the
// first sample it sees.
package zerophase
