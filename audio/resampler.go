// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/detmix/utils"
)

// Resampler converts a stream of frames from one StreamFormat to another.
//
// A Resampler is stateful: frames given to Queue are buffered until Drain
// pulls converted frames out. Init must be called again, after Dirty, whenever
// the input or output parameters change.
type Resampler interface {
	// Init prepares the converter. A failed Init leaves it uninitialized.
	Init(in, out StreamFormat) error
	IsInited() bool
	// Dirty drops all buffered state and marks the converter uninitialized.
	Dirty()
	// Queue buffers frames of raw input in the input format.
	Queue(samples []byte, frames int)
	// Drain writes up to maxFrames converted frames to out and returns how many it wrote.
	Drain(out []byte, maxFrames int) int
	// Close releases backend resources.
	Close() error
}

// Flusher is implemented by resamplers that hold back input for filtering and can
// emit their tail once the input is finished.
type Flusher interface {
	Flush()
}

// ResamplerFactory creates the Resampler a Source mixes through.
type ResamplerFactory func() Resampler

// DefaultResampler is the factory used when none is configured: the native
// linear backend.
func DefaultResampler() Resampler {
	return NewNativeResampler(InterpLinear)
}

// MapChannels converts one frame between channel counts. Mono output averages
// every input channel, mono input is copied to every output channel, other
// layouts keep the common channels and repeat the input ones for the rest.
func MapChannels(dst, src []int32) {
	switch {
	case len(dst) == len(src):
		copy(dst, src)
	case len(dst) == 1:
		var sum int64
		for _, v := range src {
			sum += int64(v)
		}
		dst[0] = int32(sum / int64(len(src)))
	case len(src) == 1:
		for c := range dst {
			dst[c] = src[0]
		}
	default:
		for c := range dst {
			dst[c] = src[c%len(src)]
		}
	}
}

// Interpolation selects how NativeResampler computes samples between input frames.
type Interpolation int

const (
	InterpLinear Interpolation = iota // Integer linear interpolation, bit reproducible
	InterpCubic                       // Catmull-Rom over four frames
)

// NativeResampler is the in-process Resampler backend. Positions advance by an
// exact rational step (input rate over output rate) so no drift accumulates,
// and a 1:1 ratio passes frames through without latency.
type NativeResampler struct {
	interp Interpolation
	in     StreamFormat
	out    StreamFormat
	inited bool

	// pending holds queued frames already mapped to the output channel count.
	pending []int32
	// idx is the current frame in pending, rem/out.Rate the fraction past it.
	idx int
	rem int64

	// history is the frame before pending[0], used by cubic interpolation.
	history    []int32
	hasHistory bool

	frameIn  []int32
	frameOut []int32
}

func NewNativeResampler(interp Interpolation) *NativeResampler {
	return &NativeResampler{interp: interp}
}

// NativeFactory returns a factory of native resamplers using interp.
func NativeFactory(interp Interpolation) ResamplerFactory {
	return func() Resampler { return NewNativeResampler(interp) }
}

func (r *NativeResampler) Init(in, out StreamFormat) error {
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
	r.history = make([]int32, out.Channels)
	r.inited = true

	return nil
}

func (r *NativeResampler) IsInited() bool { return r.inited }

func (r *NativeResampler) Dirty() {
	r.inited = false
	r.pending = r.pending[:0]
	r.idx = 0
	r.rem = 0
	r.hasHistory = false
}

func (r *NativeResampler) Close() error {
	r.Dirty()
	r.pending = nil
	return nil
}

func (r *NativeResampler) Queue(samples []byte, frames int) {
	if !r.inited || frames <= 0 {
		return
	}

	inFormat := r.in.Format.Decoded()
	frames = min(frames, len(samples)/r.in.FrameBytes())
	for f := range frames {
		base := f * r.in.Channels
		for c := range r.frameIn {
			r.frameIn[c] = ReadFixed(samples, inFormat, base+c)
		}
		MapChannels(r.frameOut, r.frameIn)
		r.pending = append(r.pending, r.frameOut...)
	}
}

// lookahead is how many frames past idx the interpolator reads when the
// position has a fractional part.
func (r *NativeResampler) lookahead() int {
	if r.interp == InterpCubic {
		return 2
	}
	return 1
}

func (r *NativeResampler) Drain(out []byte, maxFrames int) int {
	if !r.inited {
		return 0
	}

	ch := r.out.Channels
	outFormat := r.out.Format
	inRate := int64(r.in.Rate)
	outRate := int64(r.out.Rate)
	avail := len(r.pending) / ch

	maxFrames = min(maxFrames, len(out)/r.out.FrameBytes())

	n := 0
	for n < maxFrames {
		if r.idx >= avail {
			break
		}
		if r.rem > 0 && r.idx+r.lookahead() >= avail {
			break
		}

		base := r.idx * ch
		for c := range ch {
			a := r.pending[base+c]
			v := a
			if r.rem > 0 {
				b := r.pending[base+ch+c]
				if r.interp == InterpCubic {
					v = r.cubic(base, c, a, b)
				} else {
					frac16 := (r.rem << 16) / outRate
					v = int32(int64(a) + ((int64(b)-int64(a))*frac16)>>16)
				}
			}
			WriteFixed(out, outFormat, n*ch+c, v)
		}
		n++

		r.rem += inRate
		r.idx += int(r.rem / outRate)
		r.rem %= outRate
	}

	r.compact(avail)

	return n
}

func (r *NativeResampler) cubic(base, c int, y1, y2 int32) int32 {
	ch := r.out.Channels

	y0 := y1
	switch {
	case base >= ch:
		y0 = r.pending[base-ch+c]
	case r.hasHistory:
		y0 = r.history[c]
	}
	y3 := r.pending[base+2*ch+c]

	x := float64(r.rem) / float64(r.out.Rate)
	v := utils.CubicInterpolate(float64(y0), float64(y1), float64(y2), float64(y3), x)
	clamped, _ := utils.Saturate(int64(math.Round(v)), math.MinInt32, math.MaxInt32)

	return int32(clamped)
}

// compact drops consumed frames, keeping the last one as interpolation history.
func (r *NativeResampler) compact(avail int) {
	drop := min(r.idx, avail)
	if drop == 0 {
		return
	}

	ch := r.out.Channels
	copy(r.history, r.pending[(drop-1)*ch:drop*ch])
	r.hasHistory = true

	kept := copy(r.pending, r.pending[drop*ch:])
	r.pending = r.pending[:kept]
	r.idx -= drop
}
