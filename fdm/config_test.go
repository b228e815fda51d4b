package fdm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fdm/dsp/core"
)

func TestDefaultConfigIsReferenceScenario(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50000.0, cfg.SampleRate)
	assert.Equal(t, 0.01, cfg.Duration)
	assert.Equal(t, []float64{120, 240, 340, 500, 800}, MessageFrequencies(cfg.Channels))
	assert.Equal(t, []float64{3000, 6000, 9000, 12000, 15000}, CarrierFrequencies(cfg.Channels))
	assert.Equal(t, FilterConfig{CutoffHz: 1200, Order: 6}, cfg.Filter)
	assert.Equal(t, ModeDirect, cfg.Receiver.Mode)
	assert.Equal(t, 800.0, cfg.MaxMessageHz())

	tb, err := cfg.TimeBase()
	require.NoError(t, err)
	assert.Equal(t, 500, tb.Len())
}

func TestNewChannelsLengthMismatch(t *testing.T) {
	_, err := NewChannels([]float64{120, 240}, []float64{3000})
	require.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Receiver.Mode = ModeBandpass
	cfg.Noise = NoiseConfig{Enabled: true, SNRDB: 15, Seed: 42}
	cfg.Spectrum.Window = "hann"

	data, err := cfg.Marshal()
	require.NoError(t, err)

	got, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestParseConfigOverlaysDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
duration: 0.02
filter:
  cutoff_hz: 1000
receiver:
  mode: bandpass
channels:
  - message_hz: 200
    carrier_hz: 4000
  - message_hz: 300
    carrier_hz: 8000
`))
	require.NoError(t, err)

	assert.Equal(t, 50000.0, cfg.SampleRate, "unset keys keep defaults")
	assert.Equal(t, 0.02, cfg.Duration)
	assert.Equal(t, 1000.0, cfg.Filter.CutoffHz)
	assert.Equal(t, 6, cfg.Filter.Order)
	assert.Equal(t, ModeBandpass, cfg.Receiver.Mode)
	assert.Equal(t, []Channel{{200, 4000}, {300, 8000}}, cfg.Channels)
	require.NoError(t, cfg.Validate())
}

func TestParseConfigRejectsUnknownKeys(t *testing.T) {
	_, err := ParseConfig([]byte("sample_rte: 48000\n"))
	require.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestParseConfigEmptyDocument(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fdm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_rate: 48000\nworkers: 2\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 48000.0, cfg.SampleRate)
	assert.Equal(t, 2, cfg.Workers)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestBandGuard(t *testing.T) {
	cfg := DefaultConfig()
	assert.InDelta(t, 700, cfg.BandGuard(), 1e-12, "half the 1400 Hz gap between occupied bands")

	cfg.Receiver.BandGuardHz = 250
	assert.Equal(t, 250.0, cfg.BandGuard())

	single := DefaultConfig()
	single.Channels = []Channel{{MessageHz: 120, CarrierHz: 3000}}
	assert.Equal(t, 120.0, single.BandGuard(), "capped at the highest message frequency")
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeDirect, "Direct": ModeDirect, " bandpass ": ModeBandpass} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("superhet")
	require.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"no channels", func(c *Config) { c.Channels = nil }},
		{"zero message", func(c *Config) { c.Channels[1].MessageHz = 0 }},
		{"negative carrier", func(c *Config) { c.Channels[2].CarrierHz = -9000 }},
		{"duplicate carrier", func(c *Config) { c.Channels[1].CarrierHz = 3000 }},
		{"overlapping bands", func(c *Config) { c.Channels[1].CarrierHz = 4500 }},
		{"band above nyquist", func(c *Config) { c.Channels[4].CarrierHz = 24500 }},
		{"band below dc", func(c *Config) { c.Channels[0].CarrierHz = 700 }},
		{"cutoff zero", func(c *Config) { c.Filter.CutoffHz = 0 }},
		{"cutoff negative", func(c *Config) { c.Filter.CutoffHz = -100 }},
		{"cutoff at nyquist", func(c *Config) { c.Filter.CutoffHz = 25000 }},
		{"cutoff above nyquist", func(c *Config) { c.Filter.CutoffHz = 30000 }},
		{"cutoff below message", func(c *Config) { c.Filter.CutoffHz = 500 }},
		{"order zero", func(c *Config) { c.Filter.Order = 0 }},
		{"unknown mode", func(c *Config) { c.Receiver.Mode = "heterodyne" }},
		{"image below cutoff", func(c *Config) { c.Filter.CutoffHz = 2500 }},
		{"band order zero", func(c *Config) {
			c.Receiver.Mode = ModeBandpass
			c.Receiver.BandOrder = 0
		}},
		{"negative guard", func(c *Config) {
			c.Receiver.Mode = ModeBandpass
			c.Receiver.BandGuardHz = -1
		}},
		{"guard past dc", func(c *Config) {
			c.Receiver.Mode = ModeBandpass
			c.Receiver.BandGuardHz = 2500
		}},
		{"unknown window", func(c *Config) { c.Spectrum.Window = "kaiser" }},
		{"negative fft size", func(c *Config) { c.Spectrum.FFTSize = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			require.ErrorIs(t, cfg.Validate(), core.ErrInvalidParameter)
		})
	}
}

func TestValidateImageRuleOnlyInDirectMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Channels = []Channel{{MessageHz: 120, CarrierHz: 3000}, {MessageHz: 120, CarrierHz: 4000}}

	require.ErrorIs(t, cfg.Validate(), core.ErrInvalidParameter, "1000 Hz spacing puts an image at 880 Hz")

	cfg.Receiver.Mode = ModeBandpass
	require.NoError(t, cfg.Validate())
}

func TestCloneIsDeep(t *testing.T) {
	cfg := DefaultConfig()
	c := cfg.Clone()
	c.Channels[0].MessageHz = 1
	assert.Equal(t, 120.0, cfg.Channels[0].MessageHz)
}

func TestConfigGenerator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Noise.Seed = 42

	gen := cfg.Generator()
	assert.Equal(t, int64(42), gen.Seed())
	assert.Equal(t, cfg.SampleRate, gen.Config().SampleRate)

	tb, err := gen.TimeBase()
	require.NoError(t, err)
	assert.Equal(t, 500, tb.Len())
}
