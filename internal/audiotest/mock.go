// SPDX-License-Identifier: EPL-2.0

// Package audiotest builds raw sample data and fake collaborators for tests.
// It does not import the audio package so every package can use it.
package audiotest

import (
	"encoding/binary"
	"math"
	"sync"
	"time"
)

// Waveform generates the sample value, in [-1, 1], of a channel at a frame index.
type Waveform func(frame, channel int) float64

// Silence is the zero signal.
func Silence() Waveform {
	return func(int, int) float64 { return 0 }
}

// Constant holds value on every channel.
func Constant(value float64) Waveform {
	return func(int, int) float64 { return value }
}

// Sine is a sine wave of freq Hz sampled at rate.
func Sine(rate int, freq float64) Waveform {
	return func(frame, _ int) float64 {
		t := float64(frame) / float64(rate)
		return math.Sin(2 * math.Pi * freq * t)
	}
}

// Ramp counts frames: frame i has the value step*i (wrapped into [-1, 1)).
func Ramp(step float64) Waveform {
	return func(frame, _ int) float64 {
		v := math.Mod(step*float64(frame)+1, 2) - 1
		return v
	}
}

func clamp(v float64) float64 {
	return max(-1, min(1, v))
}

// U8 renders interleaved unsigned 8-bit frames.
func U8(frames, channels int, w Waveform) []byte {
	out := make([]byte, frames*channels)
	for f := range frames {
		for c := range channels {
			out[f*channels+c] = byte(int(math.Round(clamp(w(f, c))*127)) + 128)
		}
	}
	return out
}

// S16 renders interleaved signed 16-bit little-endian frames.
func S16(frames, channels int, w Waveform) []byte {
	out := make([]byte, 2*frames*channels)
	for f := range frames {
		for c := range channels {
			v := int16(math.Round(clamp(w(f, c)) * math.MaxInt16))
			binary.LittleEndian.PutUint16(out[2*(f*channels+c):], uint16(v))
		}
	}
	return out
}

// S16Values renders raw signed 16-bit values as little-endian bytes.
func S16Values(values ...int16) []byte {
	out := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out
}

// F32 renders interleaved 32-bit float little-endian frames.
func F32(frames, channels int, w Waveform) []byte {
	out := make([]byte, 4*frames*channels)
	for f := range frames {
		for c := range channels {
			binary.LittleEndian.PutUint32(out[4*(f*channels+c):], math.Float32bits(float32(w(f, c))))
		}
	}
	return out
}

// ReadS16 returns sample i of a signed 16-bit little-endian stream.
func ReadS16(b []byte, i int) int16 {
	return int16(binary.LittleEndian.Uint16(b[2*i:]))
}

// ReadF32 returns sample i of a 32-bit float little-endian stream.
func ReadF32(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
}

// FakeClock records the offsets a mixer asks a virtual clock to apply.
type FakeClock struct {
	mu      sync.Mutex
	offsets []time.Duration
}

func (c *FakeClock) FakeAdvance(offset time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.offsets = append(c.offsets, offset)
}

// Offsets returns every offset received so far, in call order.
func (c *FakeClock) Offsets() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]time.Duration(nil), c.offsets...)
}
