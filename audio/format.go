// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// SampleFormat identifies how samples are laid out in a Buffer or an output period.
// All multi-byte formats are little-endian.
type SampleFormat int

const (
	FormatU8      SampleFormat = iota // Unsigned 8-bit samples
	FormatS16                         // Signed 16-bit samples
	FormatS32                         // Signed 32-bit samples
	FormatF32                         // 32-bit floating point samples
	FormatF64                         // 64-bit floating point samples
	FormatMSADPCM                     // Compressed MS-ADPCM, decodes to S16
)

func (f SampleFormat) String() string {
	switch f {
	case FormatU8:
		return "u8"
	case FormatS16:
		return "s16"
	case FormatS32:
		return "s32"
	case FormatF32:
		return "f32"
	case FormatF64:
		return "f64"
	case FormatMSADPCM:
		return "msadpcm"
	}
	return fmt.Sprintf("SampleFormat(%d)", int(f))
}

// BitDepth of one decoded sample. MS-ADPCM reports the depth of its decoded form.
func (f SampleFormat) BitDepth() int {
	switch f {
	case FormatU8:
		return 8
	case FormatS16, FormatMSADPCM:
		return 16
	case FormatS32, FormatF32:
		return 32
	case FormatF64:
		return 64
	}
	return 0
}

// Decoded returns the PCM format samples are served in after decompression.
func (f SampleFormat) Decoded() SampleFormat {
	if f == FormatMSADPCM {
		return FormatS16
	}
	return f
}

// IsPCM reports whether f is an uncompressed format.
func (f SampleFormat) IsPCM() bool {
	return f >= FormatU8 && f <= FormatF64
}

// SilenceByte is the byte value a silent stream of this format is filled with.
func (f SampleFormat) SilenceByte() byte {
	if f == FormatU8 {
		return 0x80
	}
	return 0
}

// StreamFormat describes one side of a conversion: sample format, channel count and rate.
type StreamFormat struct {
	Format   SampleFormat
	Channels int
	Rate     int
}

// FrameBytes is the size of one interleaved multichannel frame.
func (s StreamFormat) FrameBytes() int {
	return s.Channels * s.Format.Decoded().BitDepth() / 8
}

// Validate checks that the format can be used as a PCM stream.
func (s StreamFormat) Validate() error {
	if !s.Format.Decoded().IsPCM() {
		return fmt.Errorf("%v: %w", s.Format, ErrUnsupportedFormat)
	}
	if s.Channels < 1 {
		return fmt.Errorf("%d channels: %w", s.Channels, ErrUnsupportedChannels)
	}
	if s.Rate <= 0 {
		return fmt.Errorf("%d Hz: %w", s.Rate, ErrInvalidRate)
	}
	return nil
}

func (s StreamFormat) String() string {
	return fmt.Sprintf("%v/%dch/%dHz", s.Format, s.Channels, s.Rate)
}
