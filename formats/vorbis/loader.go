// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/detmix/audio"
	"github.com/jfreymuth/oggvorbis"
)

// Name is the key of the Ogg Vorbis loader in an audio.LoaderRegistry.
const Name = "vorbis"

const readChunk = 4096

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// Loader fills an audio.Buffer with the F32 samples of an Ogg Vorbis stream.
type Loader struct{}

var _ audio.Loader = Loader{}

func (Loader) Load(r io.Reader, b *audio.Buffer) error {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return fmt.Errorf("open vorbis: %w", err)
	}
	return fill(dec, b)
}

func fill(dec oggReader, b *audio.Buffer) error {
	channels, rate := dec.Channels(), dec.SampleRate()
	if channels < 1 || rate <= 0 {
		return fmt.Errorf("%d channels at %d Hz: %w", channels, rate, ErrInvalidStream)
	}

	// Read returns interleaved values, not frames.
	chunk := make([]float32, readChunk-readChunk%channels)
	data := b.Bytes[:0]

	for {
		n, err := dec.Read(chunk)
		for _, v := range chunk[:n] {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("decode vorbis: %w", err)
		}
		if n == 0 {
			break
		}
	}

	frameBytes := 4 * channels
	b.Format = audio.FormatF32
	b.Channels = channels
	b.Frequency = rate
	b.Bytes = data[:len(data)-len(data)%frameBytes]
	b.Update()
	return nil
}
