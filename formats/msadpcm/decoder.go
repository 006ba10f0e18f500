// SPDX-License-Identifier: EPL-2.0

package msadpcm

import (
	"encoding/binary"
	"math"
)

const (
	// PreambleBytes is the per channel size of a block header.
	PreambleBytes = 7

	minDelta = 16
)

var adaptionTable = [16]int{
	230, 230, 230, 230, 307, 409, 512, 614,
	768, 614, 512, 409, 307, 230, 230, 230,
}

var (
	coeff1 = [7]int{256, 512, 0, 192, 240, 460, 392}
	coeff2 = [7]int{0, -256, 0, 64, 0, -208, -232}
)

// channelState is the predictor history of one channel.
type channelState struct {
	predictor int
	delta     int16
	sample1   int16
	sample2   int16
}

func (c *channelState) next(nibble uint8) int16 {
	signed := int(nibble)
	if signed&0x8 != 0 {
		signed -= 0x10
	}

	v := (int(c.sample1)*coeff1[c.predictor] + int(c.sample2)*coeff2[c.predictor]) / 256
	v += signed * int(c.delta)

	var sample int16
	switch {
	case v < math.MinInt16:
		sample = math.MinInt16
	case v > math.MaxInt16:
		sample = math.MaxInt16
	default:
		sample = int16(v)
	}

	c.sample2 = c.sample1
	c.sample1 = sample

	// The delta is stored as int16 and wraps like the reference decoder.
	c.delta = int16(adaptionTable[nibble] * int(c.delta) / 256)
	if c.delta < minDelta {
		c.delta = minDelta
	}

	return sample
}

// Supported reports whether the decoder can handle a channel count.
func Supported(channels int) bool {
	return channels == 1 || channels == 2
}

// BlockBytes returns the compressed size of one full block.
func BlockBytes(channels, blockFrames int) int {
	if channels <= 0 || blockFrames < 2 {
		return 0
	}
	return channels * (PreambleBytes + (blockFrames-2)/2)
}

// FrameCount returns how many frames size bytes of compressed data decode to,
// counting a trailing partial block when it holds at least a full preamble.
func FrameCount(size, channels, blockFrames int) int {
	blockBytes := BlockBytes(channels, blockFrames)
	if blockBytes == 0 || size <= 0 {
		return 0
	}

	frames := blockFrames * (size / blockBytes)
	if rem := size % blockBytes; rem >= PreambleBytes*channels {
		frames += 2 + (rem/channels-PreambleBytes)*2
	}
	return frames
}

// Decode appends the interleaved PCM of every block in src to dst and returns it.
// Decoding stops cleanly at the end of src, inside a truncated block, or at a block
// whose predictor index is out of range.
func Decode(src []byte, channels, blockFrames int, dst []int16) []int16 {
	switch channels {
	case 1:
		return decodeMono(src, blockFrames, dst)
	case 2:
		return decodeStereo(src, blockFrames, dst)
	}
	return dst
}

func readInt16(src []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(src[off:]))
}

func decodeMono(src []byte, blockFrames int, dst []int16) []int16 {
	off := 0
	for off+PreambleBytes <= len(src) {
		var c channelState
		c.predictor = int(src[off])
		if c.predictor >= len(coeff1) {
			return dst
		}
		c.delta = readInt16(src, off+1)
		c.sample1 = readInt16(src, off+3)
		c.sample2 = readInt16(src, off+5)
		off += PreambleBytes

		dst = append(dst, c.sample2, c.sample1)

		for bi := 2; bi < blockFrames; bi += 2 {
			if off >= len(src) {
				return dst
			}
			b := src[off]
			off++
			dst = append(dst, c.next(b>>4), c.next(b&0xF))
		}
	}

	return dst
}

func decodeStereo(src []byte, blockFrames int, dst []int16) []int16 {
	off := 0
	for off+2*PreambleBytes <= len(src) {
		var l, r channelState
		l.predictor = int(src[off])
		r.predictor = int(src[off+1])
		if l.predictor >= len(coeff1) || r.predictor >= len(coeff1) {
			return dst
		}
		l.delta = readInt16(src, off+2)
		r.delta = readInt16(src, off+4)
		l.sample1 = readInt16(src, off+6)
		r.sample1 = readInt16(src, off+8)
		l.sample2 = readInt16(src, off+10)
		r.sample2 = readInt16(src, off+12)
		off += 2 * PreambleBytes

		dst = append(dst, l.sample2, r.sample2, l.sample1, r.sample1)

		for bi := 4; bi < blockFrames*2; bi += 2 {
			if off >= len(src) {
				return dst
			}
			b := src[off]
			off++
			dst = append(dst, l.next(b>>4), r.next(b&0xF))
		}
	}

	return dst
}
