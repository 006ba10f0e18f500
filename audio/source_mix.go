// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"encoding/binary"
	"log/slog"
	"math"
	"time"

	"github.com/ik5/detmix/utils"
)

// Mix advances the source by tick and adds its contribution, scaled by the
// source volume times outVolume, to out. out holds whole frames of format outFmt.
// It returns the number of output frames mixed, 0 when nothing was mixed.
func (s *Source) Mix(tick time.Duration, out []byte, outFmt StreamFormat, outVolume float32) int {
	return s.mix(tick, out, outFmt, outVolume, false)
}

// Advance moves the cursor by tick exactly as Mix would, without touching any output.
func (s *Source) Advance(tick time.Duration) {
	s.mix(tick, nil, StreamFormat{}, 0, true)
}

func (s *Source) debugEnabled() bool {
	return s.logger.Enabled(context.Background(), slog.LevelDebug)
}

func (s *Source) mix(tick time.Duration, out []byte, outFmt StreamFormat, outVolume float32, skip bool) int {
	if s.state != StatePlaying || len(s.queue) == 0 {
		return 0
	}
	if tick < 0 {
		s.logger.Warn("negative tick ignored", "source", s.ID, "tick", tick)
		return 0
	}

	s.queueIndex = min(s.queueIndex, len(s.queue)-1)
	cur := s.queue[s.queueIndex]

	rate := s.inRate(cur)
	if rate <= 0 {
		s.logger.Warn("source has no playable rate",
			"source", s.ID, "buffer", cur.ID, "frequency", cur.Frequency, "pitch", s.Pitch)
		return 0
	}

	s.beginPeriod(out, outFmt)
	useLegacy := false
	if skip {
		// Frames converted before the skip must not reach a later period.
		s.Dirty()
	} else {
		head := cur.Stream()
		head.Rate = rate
		switch {
		case s.Legacy && LegacySupported(head, outFmt):
			useLegacy = true
			s.legacyStream = head
		case !s.prepareResampler(head, outFmt):
			// The cursor still advances, the period is left silent.
			skip = true
		}
	}

	wanted := TicksToFrames(tick, rate, &s.frac)
	oldIndex, oldPos := s.queueIndex, s.position

	samples, avail := cur.Samples(wanted, s.position, s.loopStatic())
	s.consume(cur, samples, avail, skip, useLegacy)

	if avail == wanted {
		s.position += avail
	} else {
		remaining := wanted - avail
		if s.Kind == KindCallback {
			s.refill(cur, remaining, skip, useLegacy)
		} else {
			s.traverse(remaining, skip, useLegacy)
		}
	}

	if s.debugEnabled() {
		s.logger.Debug("source advanced",
			"source", s.ID, "frames", wanted,
			"from_buffer", oldIndex, "from_position", oldPos,
			"to_buffer", s.queueIndex, "to_position", s.position, "state", s.state)
	}

	if skip {
		return 0
	}

	if useLegacy {
		return s.finishLegacy(out, outFmt, outVolume)
	}

	s.drain()
	clipped := mixInto(out, s.mixed[:s.mixedFrames*outFmt.FrameBytes()], outFmt, s.Volume, outVolume)
	s.noteSaturation(clipped)

	return s.mixedFrames
}

// refill keeps asking the callback for data until remaining frames have been
// read from the buffer, telling the virtual clock how far ahead the data plays.
func (s *Source) refill(cur *Buffer, remaining int, skip, useLegacy bool) {
	for remaining > 0 {
		if s.Refill == nil {
			s.position = cur.FrameCount()
			return
		}

		if s.Clock != nil {
			ahead := -int64(remaining) * nanosPerSecond / int64(cur.Frequency)
			s.Clock.FakeAdvance(time.Duration(ahead))
		}
		s.Refill(cur)
		if s.Clock != nil {
			s.Clock.FakeAdvance(0)
		}

		samples, avail := cur.Samples(remaining, 0, false)
		if avail == 0 {
			s.logger.Warn("refill callback produced no samples", "source", s.ID, "buffer", cur.ID)
			s.position = cur.FrameCount()
			return
		}
		s.consume(cur, samples, avail, skip, useLegacy)

		if avail == remaining {
			s.position = avail
		}
		remaining -= avail
	}
}

// traverse reads remaining frames from the buffers after the current one. A
// looping source wraps around the queue starting each buffer at its loop begin.
func (s *Source) traverse(remaining int, skip, useLegacy bool) {
	n := len(s.queue)
	finalIndex, finalPos := s.queueIndex, s.position

	if s.Looping {
		dry := 0
		for i := (s.queueIndex + 1) % n; remaining > 0; i = (i + 1) % n {
			b := s.queue[i]
			samples, avail := b.Samples(remaining, b.LoopBegin, s.loopStatic())
			s.consume(b, samples, avail, skip, useLegacy)

			if avail == 0 {
				dry++
				if dry >= n {
					s.logger.Warn("looping queue has no playable frames", "source", s.ID)
					break
				}
				continue
			}
			dry = 0

			if avail == remaining {
				finalIndex, finalPos = i, b.LoopBegin+avail
			}
			remaining -= avail
		}
	} else {
		for i := s.queueIndex + 1; remaining > 0 && i < n; i++ {
			b := s.queue[i]
			samples, avail := b.Samples(remaining, 0, false)
			s.consume(b, samples, avail, skip, useLegacy)

			if avail == remaining {
				finalIndex, finalPos = i, avail
			}
			remaining -= avail
		}
	}

	if remaining == 0 {
		s.queueIndex, s.position = finalIndex, finalPos
		return
	}

	if s.Kind == KindStreamingContinuous {
		s.queueIndex = n - 1
		s.position = s.queue[n-1].FrameCount()
		return
	}

	if !skip && !useLegacy {
		if f, ok := s.resampler.(Flusher); ok {
			f.Flush()
		}
		s.drain()
	}

	s.logger.Debug("source reached end of queue", "source", s.ID, "buffers", n)
	s.state = StateStopped
	s.Rewind()
}

// beginPeriod sizes the per-period scratch for out.
func (s *Source) beginPeriod(out []byte, outFmt StreamFormat) {
	s.mixedFrames = 0
	s.mixedCap = 0
	s.gathered = s.gathered[:0]

	if fb := outFmt.FrameBytes(); fb > 0 {
		s.mixedCap = len(out) / fb
		if cap(s.mixed) < len(out) {
			s.mixed = make([]byte, len(out))
		}
		s.mixed = s.mixed[:s.mixedCap*fb]
	}
}

// consume hands frames read from b to the resampler, or collects them for
// the legacy mixer.
func (s *Source) consume(b *Buffer, samples []byte, frames int, skip, useLegacy bool) {
	if skip || frames <= 0 {
		return
	}

	stream := b.Stream()
	stream.Rate = s.inRate(b)

	if useLegacy {
		if stream != s.legacyStream {
			s.logger.Debug("legacy mixing skips buffer with a different layout",
				"source", s.ID, "buffer", b.ID, "stream", stream.String())
			return
		}
		s.gathered = append(s.gathered, samples[:frames*b.FrameBytes()]...)
		return
	}

	if stream != s.inStream {
		// Output converted under the old parameters goes out before the switch.
		s.drain()
		if !s.prepareResampler(stream, s.outStream) {
			return
		}
	}

	s.resampler.Queue(samples, frames)
	// Drain as we go so the resampler never holds more than one read.
	s.drain()
}

// drain moves converted frames into the period scratch.
func (s *Source) drain() {
	if s.resampler == nil || s.mixedFrames >= s.mixedCap {
		return
	}

	fb := s.outStream.FrameBytes()
	n := s.resampler.Drain(s.mixed[s.mixedFrames*fb:], s.mixedCap-s.mixedFrames)
	s.mixedFrames += n
}

// prepareResampler makes sure the resampler converts in to out, re-initializing
// it on any parameter change.
func (s *Source) prepareResampler(in, out StreamFormat) bool {
	if s.resampler == nil {
		s.resampler = s.newResampler()
	}

	if s.resampler.IsInited() && s.inStream == in && s.outStream == out {
		return true
	}

	s.resampler.Dirty()
	if err := s.resampler.Init(in, out); err != nil {
		s.logger.Warn("resampler init failed", "source", s.ID,
			"in", in.String(), "out", out.String(), "error", err)
		s.inStream = StreamFormat{}
		return false
	}

	s.inStream, s.outStream = in, out
	return true
}

// finishLegacy stretches the gathered input over the whole output period.
func (s *Source) finishLegacy(out []byte, outFmt StreamFormat, outVolume float32) int {
	if len(s.gathered) == 0 || s.mixedCap == 0 {
		return 0
	}

	vol := fixedVolume(s.Volume, outVolume)
	outSize := s.mixedCap * outFmt.FrameBytes()
	clipped, err := s.legacy.Mix(s.gathered, len(s.gathered), s.legacyStream,
		out, outSize, outFmt, s.state == StateStopped, vol, vol)
	if err != nil {
		s.logger.Warn("legacy mix failed", "source", s.ID, "error", err)
		return 0
	}
	s.noteSaturation(clipped)

	return s.mixedCap
}

func (s *Source) noteSaturation(clipped int) {
	if clipped == 0 {
		return
	}
	s.saturations += uint64(clipped)
	s.logger.Debug("saturation while mixing", "source", s.ID, "samples", clipped)
}

// gain is the combined linear gain, capped at unity.
func gain(volume, outVolume float32) float64 {
	return max(0, min(float64(volume)*float64(outVolume), 1))
}

// fixedVolume is the gain in 1/65536 units.
func fixedVolume(volume, outVolume float32) int {
	return int(math.Round(gain(volume, outVolume) * 65536))
}

// mixInto adds the converted samples in src to out. Integer formats scale with
// the fixed point volume, float formats with the float gain, and every result
// saturates to the format range. It returns the number of clipped samples.
func mixInto(out, src []byte, outFmt StreamFormat, volume, outVolume float32) int {
	vol := int64(fixedVolume(volume, outVolume))
	g := gain(volume, outVolume)
	clipped := 0

	switch outFmt.Format {
	case FormatU8:
		for i, v := range src {
			mixed := int64(out[i]) + ((int64(v)-128)*vol)>>16
			r, c := utils.Saturate(mixed, 0, math.MaxUint8)
			out[i] = byte(r)
			clipped += b2i(c)
		}
	case FormatS16:
		for i := 0; i+2 <= len(src); i += 2 {
			conv := int64(int16(binary.LittleEndian.Uint16(src[i:])))
			mixed := int64(int16(binary.LittleEndian.Uint16(out[i:]))) + (conv*vol)>>16
			r, c := utils.Saturate(mixed, math.MinInt16, math.MaxInt16)
			binary.LittleEndian.PutUint16(out[i:], uint16(int16(r)))
			clipped += b2i(c)
		}
	case FormatS32:
		for i := 0; i+4 <= len(src); i += 4 {
			conv := int64(int32(binary.LittleEndian.Uint32(src[i:])))
			mixed := int64(int32(binary.LittleEndian.Uint32(out[i:]))) + (conv*vol)>>16
			r, c := utils.Saturate(mixed, math.MinInt32, math.MaxInt32)
			binary.LittleEndian.PutUint32(out[i:], uint32(int32(r)))
			clipped += b2i(c)
		}
	case FormatF32:
		for i := 0; i+4 <= len(src); i += 4 {
			conv := float64(math.Float32frombits(binary.LittleEndian.Uint32(src[i:])))
			mixed := float64(math.Float32frombits(binary.LittleEndian.Uint32(out[i:]))) + conv*g
			r, c := utils.SaturateFloat(mixed, -1, 1)
			binary.LittleEndian.PutUint32(out[i:], math.Float32bits(float32(r)))
			clipped += b2i(c)
		}
	case FormatF64:
		for i := 0; i+8 <= len(src); i += 8 {
			conv := math.Float64frombits(binary.LittleEndian.Uint64(src[i:]))
			mixed := math.Float64frombits(binary.LittleEndian.Uint64(out[i:])) + conv*g
			r, c := utils.SaturateFloat(mixed, -1, 1)
			binary.LittleEndian.PutUint64(out[i:], math.Float64bits(r))
			clipped += b2i(c)
		}
	}

	return clipped
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
