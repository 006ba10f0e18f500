// SPDX-License-Identifier: EPL-2.0

// Package soxr is a high quality audio.Resampler backend built on the pure Go
// libsoxr port github.com/tphakala/go-audio-resampler.
//
// Each output channel runs through its own float64 engine. When the input and
// output rates match the engines are skipped and frames only go through format
// and channel conversion.
package soxr

import (
	"fmt"

	resampler "github.com/tphakala/go-audio-resampler"

	"github.com/ik5/detmix/audio"
	"github.com/ik5/detmix/utils"
)

// Quality maps onto the library presets.
type Quality int

const (
	QualityQuick Quality = iota
	QualityLow
	QualityMedium
	QualityHigh
	QualityVeryHigh
)

// engine is the part of the library's streaming engine used here.
type engine interface {
	Process(input []float64) ([]float64, error)
	Flush() ([]float64, error)
}

func newEngine(in, out int, q Quality) (engine, error) {
	inRate, outRate := float64(in), float64(out)

	switch q {
	case QualityQuick:
		return resampler.NewEngine(inRate, outRate, resampler.QualityQuick)
	case QualityLow:
		return resampler.NewEngine(inRate, outRate, resampler.QualityLow)
	case QualityMedium:
		return resampler.NewEngine(inRate, outRate, resampler.QualityMedium)
	case QualityVeryHigh:
		return resampler.NewEngine(inRate, outRate, resampler.QualityVeryHigh)
	default:
		return resampler.NewEngine(inRate, outRate, resampler.QualityHigh)
	}
}

// Resampler implements audio.Resampler.
type Resampler struct {
	quality Quality
	in      audio.StreamFormat
	out     audio.StreamFormat
	inited  bool

	engines []engine
	planar  [][]float64 // per channel input scratch
	pending [][]float64 // per channel converted samples not yet drained

	frameIn  []int32
	frameOut []int32
}

func New(q Quality) *Resampler {
	return &Resampler{quality: q}
}

// Factory returns an audio.ResamplerFactory producing resamplers of quality q.
func Factory(q Quality) audio.ResamplerFactory {
	return func() audio.Resampler { return New(q) }
}

func (r *Resampler) Init(in, out audio.StreamFormat) error {
	r.Dirty()

	if err := in.Validate(); err != nil {
		return err
	}
	if err := out.Validate(); err != nil {
		return err
	}

	r.in = in
	r.out = out
	r.frameIn = make([]int32, in.Channels)
	r.frameOut = make([]int32, out.Channels)
	r.planar = make([][]float64, out.Channels)
	r.pending = make([][]float64, out.Channels)

	if in.Rate != out.Rate {
		r.engines = make([]engine, out.Channels)
		for c := range r.engines {
			e, err := newEngine(in.Rate, out.Rate, r.quality)
			if err != nil {
				r.engines = nil
				return fmt.Errorf("soxr engine %d->%d Hz: %w", in.Rate, out.Rate, err)
			}
			r.engines[c] = e
		}
	}

	r.inited = true

	return nil
}

func (r *Resampler) IsInited() bool { return r.inited }

func (r *Resampler) Dirty() {
	r.inited = false
	r.engines = nil
	for c := range r.pending {
		r.pending[c] = r.pending[c][:0]
	}
}

func (r *Resampler) Close() error {
	r.Dirty()
	r.planar = nil
	r.pending = nil
	return nil
}

func (r *Resampler) Queue(samples []byte, frames int) {
	if !r.inited || frames <= 0 {
		return
	}

	inFormat := r.in.Format.Decoded()
	frames = min(frames, len(samples)/r.in.FrameBytes())

	for c := range r.planar {
		r.planar[c] = r.planar[c][:0]
	}
	for f := range frames {
		base := f * r.in.Channels
		for c := range r.frameIn {
			r.frameIn[c] = audio.ReadFixed(samples, inFormat, base+c)
		}
		audio.MapChannels(r.frameOut, r.frameIn)
		for c, v := range r.frameOut {
			r.planar[c] = append(r.planar[c], utils.Fixed32ToFloat(v))
		}
	}

	if r.engines == nil {
		for c := range r.pending {
			r.pending[c] = append(r.pending[c], r.planar[c]...)
		}
		return
	}

	for c, e := range r.engines {
		converted, err := e.Process(r.planar[c])
		if err != nil {
			// A failing engine leaves the resampler uninitialized, the mixer
			// re-initializes it on the next period.
			r.Dirty()
			return
		}
		r.pending[c] = append(r.pending[c], converted...)
	}
}

// Flush pushes the filter tail of every engine into the pending output.
func (r *Resampler) Flush() {
	if !r.inited || r.engines == nil {
		return
	}

	for c, e := range r.engines {
		tail, err := e.Flush()
		if err != nil {
			continue
		}
		r.pending[c] = append(r.pending[c], tail...)
	}
}

func (r *Resampler) Drain(out []byte, maxFrames int) int {
	if !r.inited {
		return 0
	}

	n := min(maxFrames, len(out)/r.out.FrameBytes())
	for _, p := range r.pending {
		n = min(n, len(p))
	}
	if n <= 0 {
		return 0
	}

	ch := r.out.Channels
	for f := range n {
		for c := range ch {
			v := utils.FloatToFixed32(r.pending[c][f])
			audio.WriteFixed(out, r.out.Format, f*ch+c, v)
		}
	}

	for c, p := range r.pending {
		kept := copy(p, p[n:])
		r.pending[c] = p[:kept]
	}

	return n
}

var (
	_ audio.Resampler = (*Resampler)(nil)
	_ audio.Flusher   = (*Resampler)(nil)
)
