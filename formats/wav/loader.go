// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/detmix/audio"
	"github.com/ik5/detmix/formats/msadpcm"
)

// Name is the key of the WAV loader in an audio.LoaderRegistry.
const Name = "wav"

// Loader fills an audio.Buffer from a WAV stream.
//
// Integer PCM is decoded by go-audio/wav: 8-bit becomes U8, 16-bit S16, 24 and
// 32-bit S32 (24-bit left aligned). IEEE float files keep their F32 or F64
// samples and MS-ADPCM files are stored compressed, to be decoded while mixing.
type Loader struct{}

var _ audio.Loader = Loader{}

func (Loader) Load(r io.Reader, b *audio.Buffer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read wav: %w", err)
	}

	h, pcm, err := parse(data)
	if err != nil {
		return err
	}
	if h.channels < 1 || h.rate <= 0 {
		return fmt.Errorf("%d channels at %d Hz: %w", h.channels, h.rate, ErrUnsupportedWavLayout)
	}

	switch h.tag {
	case tagPCM:
		return loadPCM(data, pcm, h, b)
	case tagFloat:
		return loadFloat(pcm, h, b)
	case tagMSADPCM:
		return loadADPCM(pcm, h, b)
	}

	return fmt.Errorf("format tag %#04x: %w", h.tag, ErrUnsupportedWavFormat)
}

func loadPCM(data, pcm []byte, h header, b *audio.Buffer) error {
	var f audio.SampleFormat
	switch h.bits {
	case 8:
		f = audio.FormatU8
	case 16:
		f = audio.FormatS16
	case 24, 32:
		f = audio.FormatS32
	default:
		return fmt.Errorf("%d-bit pcm: %w", h.bits, ErrUnsupportedWavFormat)
	}

	// go-audio rejects a file without samples.
	if len(pcm) == 0 {
		store(b, f, h, nil)
		return nil
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return ErrNotWavFile
	}

	ib, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("decode wav pcm: %w", err)
	}
	ib.Format = &goaudio.Format{NumChannels: h.channels, SampleRate: h.rate}

	if h.bits == 24 {
		for i, v := range ib.Data {
			ib.Data[i] = v << 8
		}
	}

	// Drop a trailing partial frame.
	ib.Data = ib.Data[:len(ib.Data)-len(ib.Data)%h.channels]

	if err := b.SetIntBuffer(ib, f); err != nil {
		return fmt.Errorf("store wav pcm: %w", err)
	}
	return nil
}

func loadFloat(pcm []byte, h header, b *audio.Buffer) error {
	var f audio.SampleFormat
	switch h.bits {
	case 32:
		f = audio.FormatF32
	case 64:
		f = audio.FormatF64
	default:
		return fmt.Errorf("%d-bit float: %w", h.bits, ErrUnsupportedWavFormat)
	}

	frameBytes := h.channels * h.bits / 8
	store(b, f, h, pcm[:len(pcm)-len(pcm)%frameBytes])
	return nil
}

func loadADPCM(pcm []byte, h header, b *audio.Buffer) error {
	if !msadpcm.Supported(h.channels) {
		return fmt.Errorf("ms-adpcm with %d channels: %w", h.channels, ErrUnsupportedWavFormat)
	}

	frames := h.samplesPerBlock
	if frames == 0 {
		frames = (h.blockAlign/h.channels-msadpcm.PreambleBytes)*2 + 2
	}
	if msadpcm.BlockBytes(h.channels, frames) != h.blockAlign {
		return fmt.Errorf("ms-adpcm block of %d bytes for %d frames: %w", h.blockAlign, frames, ErrUnsupportedWavLayout)
	}

	b.BlockFrames = frames
	store(b, audio.FormatMSADPCM, h, pcm[:len(pcm)-len(pcm)%h.channels])
	return nil
}

// store copies raw into b so the buffer does not pin the whole file.
func store(b *audio.Buffer, f audio.SampleFormat, h header, raw []byte) {
	b.Format = f
	b.Channels = h.channels
	b.Frequency = h.rate
	b.Bytes = append(b.Bytes[:0], raw...)
	b.Update()
}
