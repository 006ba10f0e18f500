// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"fmt"
)

// legacySample is the sample type set the legacy mixer handles.
type legacySample interface {
	~uint8 | ~int16
}

// LegacyMixer is the fixed-point mixer used for 8 and 16 bit mono or stereo
// streams. It stretches size input bytes over the whole output period with
// linear interpolation and adds them to the output, so there is no resampler
// state to carry between periods.
//
// A LegacyMixer keeps scratch storage and is not safe for concurrent use.
type LegacyMixer struct {
	in16  []int16
	out16 []int16
}

// LegacySupported reports whether the legacy mixer can mix from in to out.
func LegacySupported(in, out StreamFormat) bool {
	ok := func(f StreamFormat) bool {
		return (f.Format == FormatU8 || f.Format == FormatS16) && (f.Channels == 1 || f.Channels == 2)
	}
	return ok(in) && ok(out)
}

// Mix adds size bytes of in, in format inFmt, to the first outSize bytes of out in
// format outFmt. lvas and rvas are the left and right volumes in 1/65536 units.
// lastSample clamps the interpolation partner of the final frame to the input.
// It returns the number of output samples that saturated.
func (m *LegacyMixer) Mix(in []byte, size int, inFmt StreamFormat, out []byte, outSize int, outFmt StreamFormat, lastSample bool, lvas, rvas int) (int, error) {
	if !LegacySupported(inFmt, outFmt) {
		return 0, fmt.Errorf("legacy mix %v -> %v: %w", inFmt, outFmt, ErrUnsupportedFormat)
	}

	size = min(size, len(in))
	outSize = min(outSize, len(out))
	if size <= 0 || outSize <= 0 {
		return 0, nil
	}

	p := legacyParams{
		size:       size,
		outSize:    outSize,
		fromCh:     inFmt.Channels,
		toCh:       outFmt.Channels,
		fromBytes:  inFmt.Format.BitDepth() / 8,
		toBytes:    outFmt.Format.BitDepth() / 8,
		lastSample: lastSample,
		lvas:       lvas,
		rvas:       rvas,
	}

	in16 := inFmt.Format == FormatS16
	out16 := outFmt.Format == FormatS16

	if in16 {
		m.in16 = decodeS16(m.in16, in[:size])
	}
	if out16 {
		m.out16 = decodeS16(m.out16, out[:outSize])
	}

	var clipped int
	switch {
	case !in16 && !out16:
		clipped = mixLegacy(in[:size], out[:outSize], p)
	case !in16 && out16:
		clipped = mixLegacy(in[:size], m.out16, p)
	case in16 && !out16:
		clipped = mixLegacy(m.in16, out[:outSize], p)
	default:
		clipped = mixLegacy(m.in16, m.out16, p)
	}

	if out16 {
		for i, v := range m.out16 {
			binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
		}
	}

	return clipped, nil
}

func decodeS16(dst []int16, b []byte) []int16 {
	n := len(b) / 2
	if cap(dst) < n {
		dst = make([]int16, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return dst
}

type legacyParams struct {
	size, outSize      int // in bytes
	fromCh, toCh       int
	fromBytes, toBytes int
	lastSample         bool
	lvas, rvas         int
}

// signOffset moves unsigned samples of width bytes to a zero centred range.
func signOffset(width int, unsigned bool) int {
	if !unsigned {
		return 0
	}
	return -(1 << (8*width - 1))
}

// mixLegacy walks the output in byte offsets. The input offset advances by
// size/outSize output bytes per output byte, the fractional position frac is
// kept in 1/1024 of an input byte with its own error accumulator.
func mixLegacy[F, T legacySample](in []F, out []T, p legacyParams) int {
	var zeroF F
	var zeroT T
	fromUnsigned := zeroF-1 > 0
	toUnsigned := zeroT-1 > 0

	fromShift := uint((2 + p.fromBytes - p.toBytes) << 3)
	maxTo := 1<<(8*p.toBytes-1) - 1
	fromOffset := signOffset(p.fromBytes, fromUnsigned)
	toOffset := signOffset(p.toBytes, toUnsigned)

	toInc := p.toBytes * p.toCh
	fromInc := p.fromBytes * p.fromCh

	if len(in) < p.fromCh || len(out) < p.toCh {
		return 0
	}
	lastFrame := (len(in)/p.fromCh - 1) * fromInc

	fracNumer := p.size * (toInc << 10)
	fracIncrement := fracNumer / p.outSize
	fracErrorIncrement := fracNumer % p.outSize

	var frac, fracError, offsetRemainder, inOffset, clipped int

	clip := func(v int) int {
		switch {
		case v > maxTo:
			clipped++
			return maxTo
		case v < -maxTo-1:
			clipped++
			return -maxTo - 1
		}
		return v
	}

	for o := 0; o*p.toBytes+toInc <= p.outSize && o+p.toCh <= len(out); o += p.toCh {
		first := inOffset - inOffset%fromInc
		second := first + fromInc
		if p.lastSample && second > p.size-fromInc {
			second = p.size - fromInc
		}
		first = max(0, min(first, lastFrame))
		second = max(0, min(second, lastFrame))

		fi := first / p.fromBytes
		si := second / p.fromBytes

		myL := int(in[fi]) + fromOffset
		myR := int(in[fi+p.fromCh-1]) + fromOffset
		myL2 := int(in[si]) + fromOffset
		myR2 := int(in[si+p.fromCh-1]) + fromOffset

		otherL := int(out[o]) + toOffset
		otherR := int(out[o+p.toCh-1]) + toOffset

		mixedL := otherL + ((((myL*p.lvas)>>fromShift)*(1024-frac) + ((myL2*p.lvas)>>fromShift)*frac) >> 10)
		mixedR := otherR + ((((myR*p.rvas)>>fromShift)*(1024-frac) + ((myR2*p.rvas)>>fromShift)*frac) >> 10)

		if p.toCh != 1 {
			out[o] = T(clip(mixedL) - toOffset)
			out[o+1] = T(clip(mixedR) - toOffset)
		} else {
			out[o] = T(clip((mixedL+mixedR)>>1) - toOffset)
		}

		offsetRemainder += p.size * toInc
		for offsetRemainder >= p.outSize {
			offsetRemainder -= p.outSize
			inOffset++
		}

		fracError += fracErrorIncrement
		if fracError >= p.outSize {
			fracError -= p.outSize
			frac++
		}
		frac = (frac + fracIncrement) & 0x3FF
	}

	return clipped
}
