package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--out", dir, "--format", "svg", "--mode", "bandpass", "--csv", "--log-level", "warn"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "NRMSE")
	for _, name := range []string{"messages.svg", "composite.svg", "recovered.svg", "zoom_ch0.svg", "spectrum.svg", "signals.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRunRejectsInvalidCutoff(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--out", t.TempDir(), "--cutoff", "30000"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "invalid parameter")
}

func TestRunLoadsConfigAndOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "fdm.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("channels:\n  - message_hz: 200\n    carrier_hz: 5000\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", cfgPath, "--out", dir, "--snr", "30", "--duration", "0.02"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "5000 Hz")
}

func TestRunUnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"--bogus"}, &stdout, &stderr))
}

func TestRunRejectsZoomChannelBeforePipeline(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--out", dir, "--zoom-channel", "5"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "zoom channel 5 of 5")
	assert.Empty(t, stdout.String(), "no report table for a rejected run")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
