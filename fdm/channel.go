package fdm

import (
	"fmt"

	"github.com/cwbudde/algo-fdm/dsp/core"
)

// Channel pairs a message tone with the carrier it is shifted onto.
type Channel struct {
	MessageHz float64 `yaml:"message_hz"`
	CarrierHz float64 `yaml:"carrier_hz"`
}

// NewChannels zips parallel message and carrier frequency lists.
func NewChannels(messages, carriers []float64) ([]Channel, error) {
	if len(messages) != len(carriers) {
		return nil, fmt.Errorf("%w: %d message frequencies, %d carrier frequencies",
			core.ErrShapeMismatch, len(messages), len(carriers))
	}

	out := make([]Channel, len(messages))
	for i := range messages {
		out[i] = Channel{MessageHz: messages[i], CarrierHz: carriers[i]}
	}
	return out, nil
}

// MessageFrequencies returns the message frequency of every channel in order.
func MessageFrequencies(channels []Channel) []float64 {
	out := make([]float64, len(channels))
	for i, ch := range channels {
		out[i] = ch.MessageHz
	}
	return out
}

// CarrierFrequencies returns the carrier frequency of every channel in order.
func CarrierFrequencies(channels []Channel) []float64 {
	out := make([]float64, len(channels))
	for i, ch := range channels {
		out[i] = ch.CarrierHz
	}
	return out
}

// MaxMessageHz returns the highest message frequency, which sets the
// half-width of every occupied band.
func MaxMessageHz(channels []Channel) float64 {
	var m float64
	for _, ch := range channels {
		m = max(m, ch.MessageHz)
	}
	return m
}
