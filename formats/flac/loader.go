// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/detmix/audio"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// Name is the key of the FLAC loader in an audio.LoaderRegistry.
const Name = "flac"

// frameParser is the part of flac.Stream the loader uses, mocked in tests.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
}

// streamInfo is what the loader needs from the STREAMINFO block.
type streamInfo struct {
	channels int
	rate     int
	bits     int
	samples  uint64 // total frames, 0 if unknown
}

// Loader fills an audio.Buffer from a FLAC stream.
//
// Samples up to 8 bits become U8, up to 16 bits S16 and wider ones S32. The
// samples are moved to the top of the target word.
type Loader struct{}

var _ audio.Loader = Loader{}

func (Loader) Load(r io.Reader, b *audio.Buffer) error {
	stream, err := flac.New(r)
	if err != nil {
		return fmt.Errorf("open flac: %w", err)
	}
	defer stream.Close()

	info := streamInfo{
		channels: int(stream.Info.NChannels),
		rate:     int(stream.Info.SampleRate),
		bits:     int(stream.Info.BitsPerSample),
		samples:  stream.Info.NSamples,
	}
	return fill(stream, info, b)
}

func fill(p frameParser, info streamInfo, b *audio.Buffer) error {
	if info.channels < 1 || info.rate <= 0 {
		return fmt.Errorf("%d channels at %d Hz: %w", info.channels, info.rate, ErrInvalidStream)
	}

	var f audio.SampleFormat
	switch {
	case info.bits >= 1 && info.bits <= 8:
		f = audio.FormatU8
	case info.bits > 8 && info.bits <= 16:
		f = audio.FormatS16
	case info.bits > 16 && info.bits <= 32:
		f = audio.FormatS32
	default:
		return fmt.Errorf("%d bits: %w", info.bits, ErrUnsupportedBitDepth)
	}
	width := f.BitDepth() / 8
	shift := uint(f.BitDepth() - info.bits)

	data := b.Bytes[:0]
	if info.samples > 0 {
		data = make([]byte, 0, int(info.samples)*info.channels*width)
	}

	for {
		fr, err := p.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("decode flac frame: %w", err)
		}
		if len(fr.Subframes) < info.channels {
			return fmt.Errorf("%d subframes for %d channels: %w", len(fr.Subframes), info.channels, ErrChannelMismatch)
		}

		n := int(fr.BlockSize)
		for _, sub := range fr.Subframes[:info.channels] {
			n = min(n, len(sub.Samples))
		}

		for i := range n {
			for ch := range info.channels {
				v := fr.Subframes[ch].Samples[i] << shift
				switch f {
				case audio.FormatU8:
					data = append(data, byte(v+128))
				case audio.FormatS16:
					data = binary.LittleEndian.AppendUint16(data, uint16(int16(v)))
				default:
					data = binary.LittleEndian.AppendUint32(data, uint32(v))
				}
			}
		}
	}

	b.Format = f
	b.Channels = info.channels
	b.Frequency = info.rate
	b.Bytes = data
	b.Update()
	return nil
}
