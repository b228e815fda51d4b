package fdm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-fdm/dsp/core"
	"github.com/cwbudde/algo-fdm/dsp/signal"
	"github.com/cwbudde/algo-fdm/dsp/window"
)

// Mode selects how the receiver separates channels before demodulation.
type Mode string

const (
	// ModeDirect demodulates every channel from the full composite.
	ModeDirect Mode = "direct"
	// ModeBandpass isolates each channel's band before demodulation.
	ModeBandpass Mode = "bandpass"
)

// ParseMode maps a case-insensitive name to a Mode. Empty selects ModeDirect.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case "", ModeDirect:
		return ModeDirect, nil
	case ModeBandpass:
		return ModeBandpass, nil
	default:
		return "", fmt.Errorf("%w: unknown receiver mode %q", core.ErrInvalidParameter, name)
	}
}

// FilterConfig parametrizes the demodulation low-pass.
type FilterConfig struct {
	CutoffHz float64 `yaml:"cutoff_hz"`
	Order    int     `yaml:"order"`
}

// ReceiverConfig parametrizes channel isolation.
type ReceiverConfig struct {
	Mode Mode `yaml:"mode"`
	// BandGuardHz widens each isolation band beyond carrier ± max message.
	// Zero selects half the narrowest gap between occupied bands.
	BandGuardHz float64 `yaml:"band_guard_hz"`
	// BandOrder is the prototype order of each band-pass; every band gets
	// BandOrder second-order sections.
	BandOrder int `yaml:"band_order"`
}

// NoiseConfig controls white Gaussian noise added to the composite before
// it reaches the receiver.
type NoiseConfig struct {
	Enabled bool    `yaml:"enabled"`
	SNRDB   float64 `yaml:"snr_db"`
	Seed    int64   `yaml:"seed"`
}

// SpectrumConfig controls the diagnostic composite spectrum.
type SpectrumConfig struct {
	// FFTSize selects a zero-padded transform; 0 uses the signal length.
	FFTSize int    `yaml:"fft_size"`
	Window  string `yaml:"window"`
}

// Config describes one pipeline run. It is passed by value and never
// modified by the pipeline.
type Config struct {
	SampleRate float64        `yaml:"sample_rate"`
	Duration   float64        `yaml:"duration"`
	Channels   []Channel      `yaml:"channels"`
	Filter     FilterConfig   `yaml:"filter"`
	Receiver   ReceiverConfig `yaml:"receiver"`
	Noise      NoiseConfig    `yaml:"noise"`
	Spectrum   SpectrumConfig `yaml:"spectrum"`
	// Workers bounds concurrent channel demodulation; 0 means one per CPU.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the reference five-channel scenario.
func DefaultConfig() Config {
	channels, _ := NewChannels(
		[]float64{120, 240, 340, 500, 800},
		[]float64{3000, 6000, 9000, 12000, 15000},
	)

	return Config{
		SampleRate: 50000,
		Duration:   0.01,
		Channels:   channels,
		Filter:     FilterConfig{CutoffHz: 1200, Order: 6},
		Receiver:   ReceiverConfig{Mode: ModeDirect, BandOrder: 4},
		Noise:      NoiseConfig{SNRDB: 20, Seed: 1},
	}
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML over DefaultConfig. Unknown keys are rejected.
// A channel list in the document replaces the default channels entirely.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", core.ErrInvalidParameter, err)
	}
	return cfg, nil
}

// Marshal encodes the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	c.Channels = slices.Clone(c.Channels)
	return c
}

// TimeBase returns the sampling grid of the run.
func (c Config) TimeBase() (signal.TimeBase, error) {
	return signal.NewTimeBase(c.SampleRate, c.Duration)
}

// Generator returns a signal generator on the configured grid, seeded for
// noise injection. Call it on a validated config: the processor options
// ignore non-positive rates and durations.
func (c Config) Generator() *signal.Generator {
	return signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(c.SampleRate), core.WithDuration(c.Duration)},
		signal.WithSeed(c.Noise.Seed),
	)
}

// Nyquist returns SampleRate/2.
func (c Config) Nyquist() float64 { return c.SampleRate / 2 }

// MaxMessageHz returns the highest configured message frequency.
func (c Config) MaxMessageHz() float64 { return MaxMessageHz(c.Channels) }

// Validate checks every precondition of a pipeline run and returns the
// first violation, wrapping core.ErrInvalidParameter.
func (c Config) Validate() error {
	if _, err := c.TimeBase(); err != nil {
		return err
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("%w: at least one channel is required", core.ErrInvalidParameter)
	}
	if err := c.validateChannels(); err != nil {
		return err
	}
	if err := c.validateFilter(); err != nil {
		return err
	}
	if err := c.validateReceiver(); err != nil {
		return err
	}

	if c.Noise.Enabled && (math.IsNaN(c.Noise.SNRDB) || math.IsInf(c.Noise.SNRDB, 0)) {
		return fmt.Errorf("%w: noise SNR must be finite: %v", core.ErrInvalidParameter, c.Noise.SNRDB)
	}
	if c.Spectrum.FFTSize < 0 {
		return fmt.Errorf("%w: fft size must be >= 0: %d", core.ErrInvalidParameter, c.Spectrum.FFTSize)
	}
	if _, err := window.ParseType(c.Spectrum.Window); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0: %d", core.ErrInvalidParameter, c.Workers)
	}
	return nil
}

func (c Config) validateChannels() error {
	nyquist := c.Nyquist()
	for i, ch := range c.Channels {
		if !core.IsPositiveFinite(ch.MessageHz) {
			return fmt.Errorf("%w: channel %d message frequency must be > 0: %v", core.ErrInvalidParameter, i, ch.MessageHz)
		}
		if !core.IsPositiveFinite(ch.CarrierHz) {
			return fmt.Errorf("%w: channel %d carrier frequency must be > 0: %v", core.ErrInvalidParameter, i, ch.CarrierHz)
		}
	}

	maxMsg := c.MaxMessageHz()
	bands := occupiedBands(c.Channels, maxMsg)
	for k, b := range bands {
		if b.lo <= 0 || b.hi >= nyquist {
			return fmt.Errorf("%w: channel %d band [%v, %v] Hz leaves (0, %v)",
				core.ErrInvalidParameter, b.channel, b.lo, b.hi, nyquist)
		}
		if k == 0 {
			continue
		}
		prev := bands[k-1]
		if prev.center == b.center {
			return fmt.Errorf("%w: channels %d and %d share carrier %v Hz",
				core.ErrInvalidParameter, prev.channel, b.channel, b.center)
		}
		if b.lo <= prev.hi {
			return fmt.Errorf("%w: channel %d band [%v, %v] Hz overlaps channel %d band [%v, %v] Hz",
				core.ErrInvalidParameter, b.channel, b.lo, b.hi, prev.channel, prev.lo, prev.hi)
		}
	}
	return nil
}

func (c Config) validateFilter() error {
	if err := checkLowpass(c.Filter.CutoffHz, c.Filter.Order, c.SampleRate); err != nil {
		return err
	}
	if maxMsg := c.MaxMessageHz(); c.Filter.CutoffHz <= maxMsg {
		return fmt.Errorf("%w: cutoff %v Hz must exceed the highest message frequency %v Hz",
			core.ErrInvalidParameter, c.Filter.CutoffHz, maxMsg)
	}
	return nil
}

func (c Config) validateReceiver() error {
	mode, err := ParseMode(string(c.Receiver.Mode))
	if err != nil {
		return err
	}

	switch mode {
	case ModeDirect:
		// Mixing channel j with carrier i leaves an image at |fc_i - fc_j| ± fm_j;
		// the low-pass must reject all of them.
		maxMsg := c.MaxMessageHz()
		for i, a := range c.Channels {
			for j, b := range c.Channels {
				if i == j {
					continue
				}
				if image := math.Abs(a.CarrierHz-b.CarrierHz) - maxMsg; image <= c.Filter.CutoffHz {
					return fmt.Errorf("%w: channel %d image at %v Hz falls below cutoff %v Hz when demodulating channel %d",
						core.ErrInvalidParameter, j, image, c.Filter.CutoffHz, i)
				}
			}
		}
	case ModeBandpass:
		if c.Receiver.BandOrder < 1 {
			return fmt.Errorf("%w: band order must be >= 1: %d", core.ErrInvalidParameter, c.Receiver.BandOrder)
		}
		if c.Receiver.BandGuardHz < 0 || math.IsNaN(c.Receiver.BandGuardHz) {
			return fmt.Errorf("%w: band guard must be >= 0: %v", core.ErrInvalidParameter, c.Receiver.BandGuardHz)
		}
		half := c.MaxMessageHz() + c.BandGuard()
		for i, ch := range c.Channels {
			if ch.CarrierHz-half <= 0 || ch.CarrierHz+half >= c.Nyquist() {
				return fmt.Errorf("%w: channel %d isolation band [%v, %v] Hz leaves (0, %v)",
					core.ErrInvalidParameter, i, ch.CarrierHz-half, ch.CarrierHz+half, c.Nyquist())
			}
		}
	}
	return nil
}

// BandGuard returns the effective isolation guard: BandGuardHz when set,
// otherwise half the narrowest gap between occupied bands capped at the
// highest message frequency and kept clear of DC and Nyquist.
func (c Config) BandGuard() float64 {
	if c.Receiver.BandGuardHz > 0 {
		return c.Receiver.BandGuardHz
	}

	maxMsg := c.MaxMessageHz()
	guard := maxMsg
	bands := occupiedBands(c.Channels, maxMsg)
	for k := 1; k < len(bands); k++ {
		guard = min(guard, (bands[k].lo-bands[k-1].hi)/2)
	}
	for _, b := range bands {
		guard = min(guard, b.lo/2, (c.Nyquist()-b.hi)/2)
	}
	return max(guard, 0)
}

type band struct {
	channel        int
	lo, center, hi float64
}

// occupiedBands returns carrier ± maxMsg for every channel, sorted by carrier.
func occupiedBands(channels []Channel, maxMsg float64) []band {
	out := make([]band, len(channels))
	for i, ch := range channels {
		out[i] = band{channel: i, lo: ch.CarrierHz - maxMsg, center: ch.CarrierHz, hi: ch.CarrierHz + maxMsg}
	}
	slices.SortFunc(out, func(a, b band) int {
		switch {
		case a.center < b.center:
			return -1
		case a.center > b.center:
			return 1
		default:
			return a.channel - b.channel
		}
	})
	return out
}
