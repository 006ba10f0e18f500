// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/detmix/audio"
)

// Name is the key of the AIFF loader in an audio.LoaderRegistry.
const Name = "aiff"

// readChunk is the number of samples pulled from the decoder per call.
const readChunk = 4096

// aiffReader is the part of aiff.Decoder the loader uses, mocked in tests.
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Loader fills an audio.Buffer from an AIFF stream.
//
// 8-bit files become U8, 16-bit S16, 24 and 32-bit S32 with 24-bit samples
// left aligned.
type Loader struct{}

var _ audio.Loader = Loader{}

func (Loader) Load(r io.Reader, b *audio.Buffer) error {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return ErrNotAiffFile
	}
	dec.ReadInfo()

	return fill(dec, int(dec.BitDepth), b)
}

// fill drains dec into b.
func fill(dec aiffReader, bitDepth int, b *audio.Buffer) error {
	format := dec.Format()
	if format == nil || format.NumChannels < 1 || format.SampleRate <= 0 {
		return ErrUnsupportedAiffLayout
	}

	var f audio.SampleFormat
	switch bitDepth {
	case 8:
		f = audio.FormatU8
	case 16:
		f = audio.FormatS16
	case 24, 32:
		f = audio.FormatS32
	default:
		return fmt.Errorf("%d bits: %w", bitDepth, ErrUnsupportedBitDepth)
	}

	chunk := &goaudio.IntBuffer{
		Format:         format,
		Data:           make([]int, readChunk-readChunk%format.NumChannels),
		SourceBitDepth: bitDepth,
	}

	var data []int
	for {
		n, err := dec.PCMBuffer(chunk)
		data = append(data, chunk.Data[:n]...)
		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return fmt.Errorf("decode aiff: %w", err)
		}
	}

	// AIFF 8-bit samples are signed.
	for i, v := range data {
		switch bitDepth {
		case 8:
			data[i] = v + 128
		case 24:
			data[i] = v << 8
		}
	}
	data = data[:len(data)-len(data)%format.NumChannels]

	ib := &goaudio.IntBuffer{Format: format, Data: data, SourceBitDepth: bitDepth}
	if err := b.SetIntBuffer(ib, f); err != nil {
		return fmt.Errorf("store aiff pcm: %w", err)
	}
	return nil
}
