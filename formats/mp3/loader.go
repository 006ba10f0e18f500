// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/detmix/audio"
)

// Name is the key of the MP3 loader in an audio.LoaderRegistry.
const Name = "mp3"

// go-mp3 always decodes to 16-bit little-endian stereo.
const (
	channels   = 2
	frameBytes = 4
	readChunk  = 8192
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// Loader fills an audio.Buffer with the S16 stereo PCM of an MP3 stream.
type Loader struct{}

var _ audio.Loader = Loader{}

func (Loader) Load(r io.Reader, b *audio.Buffer) error {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return fmt.Errorf("open mp3: %w", err)
	}
	return fill(dec, b)
}

func fill(dec mp3Reader, b *audio.Buffer) error {
	rate := dec.SampleRate()
	if rate <= 0 {
		return ErrInvalidSampleRate
	}

	data := b.Bytes[:0]
	if l, ok := dec.(interface{ Length() int64 }); ok && l.Length() > 0 {
		data = make([]byte, 0, l.Length())
	}

	for {
		if cap(data)-len(data) < readChunk {
			data = append(data, make([]byte, readChunk)...)[:len(data)]
		}
		n, err := dec.Read(data[len(data):cap(data)])
		data = data[:len(data)+n]
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("decode mp3: %w", err)
		}
		if n == 0 {
			break
		}
	}

	b.Format = audio.FormatS16
	b.Channels = channels
	b.Frequency = rate
	b.Bytes = data[:len(data)-len(data)%frameBytes]
	b.Update()
	return nil
}
