// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/ik5/detmix/audio"
)

// Sink appends mixed periods to a WAV file through the go-audio encoder. The
// header sizes are patched on Close, so the writer must be seekable.
//
// Only integer output formats are accepted.
type Sink struct {
	enc     *wav.Encoder
	format  audio.StreamFormat
	scratch audio.Buffer
	frames  int
}

// NewSink starts a WAV file on w for periods in format f.
func NewSink(w io.WriteSeeker, f audio.StreamFormat) (*Sink, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("wav sink: %w", err)
	}
	switch f.Format {
	case audio.FormatU8, audio.FormatS16, audio.FormatS32:
	default:
		return nil, fmt.Errorf("%v sink: %w", f.Format, ErrUnsupportedWavFormat)
	}

	return &Sink{
		enc:    wav.NewEncoder(w, f.Rate, f.Format.BitDepth(), f.Channels, tagPCM),
		format: f,
	}, nil
}

// Write appends one period. A period holding a partial frame is rejected
// with audio.ErrInvalidDstSize and nothing is written.
func (s *Sink) Write(period []byte) error {
	frameBytes := s.format.FrameBytes()
	if len(period)%frameBytes != 0 {
		return fmt.Errorf("%d bytes of %d byte frames: %w", len(period), frameBytes, audio.ErrInvalidDstSize)
	}
	if len(period) == 0 {
		return nil
	}

	s.scratch.Format = s.format.Format
	s.scratch.Channels = s.format.Channels
	s.scratch.Frequency = s.format.Rate
	s.scratch.Bytes = period
	s.scratch.Update()

	ib, err := s.scratch.IntBuffer()
	if err != nil {
		return fmt.Errorf("wav sink: %w", err)
	}
	if err := s.enc.Write(ib); err != nil {
		return fmt.Errorf("write wav period: %w", err)
	}

	s.frames += len(period) / frameBytes
	return nil
}

// Frames is the number of frames written so far.
func (s *Sink) Frames() int {
	return s.frames
}

// Close finishes the file header. It does not close the underlying writer.
func (s *Sink) Close() error {
	s.scratch.Bytes = nil
	if err := s.enc.Close(); err != nil {
		return fmt.Errorf("close wav sink: %w", err)
	}
	return nil
}
