// SPDX-License-Identifier: EPL-2.0

package detmix

import (
	"log/slog"

	"github.com/ik5/detmix/audio"
)

const (
	DefaultMaxBuffers = 2048
	DefaultMaxSources = 256
)

// Config holds the Registry settings.
type Config struct {
	// Output is the format of the mixed periods.
	Output audio.StreamFormat
	// Volume is the master gain applied on top of every source volume.
	Volume float32

	MaxBuffers int
	MaxSources int

	// Resampler creates the converter of each new source.
	Resampler audio.ResamplerFactory
	// Legacy makes new sources use the LegacyMixer when their format allows.
	Legacy bool

	Logger *slog.Logger
}

// DefaultConfig mixes to 16-bit stereo at 44.1kHz through the native linear resampler.
func DefaultConfig() Config {
	return Config{
		Output:     audio.StreamFormat{Format: audio.FormatS16, Channels: 2, Rate: 44100},
		Volume:     1,
		MaxBuffers: DefaultMaxBuffers,
		MaxSources: DefaultMaxSources,
		Resampler:  audio.DefaultResampler,
		Logger:     slog.Default(),
	}
}

// withDefaults fills zero values from DefaultConfig, except Output. A zero
// Volume means unity, SetVolume(0) silences the mix.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Volume == 0 {
		c.Volume = d.Volume
	}
	if c.MaxBuffers <= 0 {
		c.MaxBuffers = d.MaxBuffers
	}
	if c.MaxSources <= 0 {
		c.MaxSources = d.MaxSources
	}
	if c.Resampler == nil {
		c.Resampler = d.Resampler
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	return c
}
