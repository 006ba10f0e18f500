// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"fmt"

	goaudio "github.com/go-audio/audio"
)

// IntBuffer exports the decoded content of an integer buffer as a go-audio IntBuffer.
// U8 samples keep their unsigned byte value, as go-audio's WAV codec expects.
func (b *Buffer) IntBuffer() (*goaudio.IntBuffer, error) {
	f := b.Format.Decoded()
	if f != FormatU8 && f != FormatS16 && f != FormatS32 {
		return nil, fmt.Errorf("%v: %w", b.Format, ErrUnsupportedFormat)
	}

	raw := b.Bytes
	if b.Format == FormatMSADPCM {
		var n int
		raw, n = b.Samples(b.frameCount, 0, false)
		raw = raw[:n*b.frameBytes]
	}

	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: b.Channels, SampleRate: b.Frequency},
		Data:           bytesToInts(raw, f),
		SourceBitDepth: f.BitDepth(),
	}, nil
}

// SetIntBuffer replaces the buffer content with go-audio samples stored in format f.
// Values are taken in the native range of f (0..255 for U8).
func (b *Buffer) SetIntBuffer(ib *goaudio.IntBuffer, f SampleFormat) error {
	if f != FormatU8 && f != FormatS16 && f != FormatS32 {
		return fmt.Errorf("%v: %w", f, ErrUnsupportedFormat)
	}
	if ib == nil || ib.Format == nil || ib.Format.NumChannels < 1 {
		return fmt.Errorf("go-audio buffer without format: %w", ErrUnsupportedChannels)
	}

	b.Format = f
	b.Channels = ib.Format.NumChannels
	b.Frequency = ib.Format.SampleRate
	b.Bytes = intsToBytes(b.Bytes[:0], ib.Data, f)
	b.Update()

	return nil
}

func bytesToInts(raw []byte, f SampleFormat) []int {
	width := f.BitDepth() / 8
	out := make([]int, len(raw)/width)
	for i := range out {
		switch f {
		case FormatU8:
			out[i] = int(raw[i])
		case FormatS16:
			out[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
		case FormatS32:
			out[i] = int(int32(binary.LittleEndian.Uint32(raw[4*i:])))
		}
	}
	return out
}

func intsToBytes(dst []byte, data []int, f SampleFormat) []byte {
	for _, v := range data {
		switch f {
		case FormatU8:
			dst = append(dst, byte(v))
		case FormatS16:
			dst = binary.LittleEndian.AppendUint16(dst, uint16(int16(v)))
		case FormatS32:
			dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(v)))
		}
	}
	return dst
}
