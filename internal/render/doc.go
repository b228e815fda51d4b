// Package render writes the artifacts of a finished pipeline run: plots,
// WAV audio and CSV tables. It never runs during signal processing.
package render
