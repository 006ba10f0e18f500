// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"

	"github.com/ik5/detmix/formats/msadpcm"
)

// DefaultBlockFrames is the MS-ADPCM block length used when a loader leaves
// BlockFrames unset.
const DefaultBlockFrames = 64

// Buffer stores the samples of one audio buffer with the parameters needed to read them.
//
// The exported fields are the primary parameters. A caller that changes any of
// them must call Update before the buffer is read again, Update recomputes the
// derived geometry. Once enqueued into a Source a Buffer is treated as read-only.
type Buffer struct {
	// ID is the handle given by the Registry, 0 means unassigned.
	ID int

	Format    SampleFormat
	Channels  int
	Frequency int

	// Bytes holds the raw, possibly compressed, sample data.
	Bytes []byte

	// Loop region in frames. A LoopEnd of 0 disables looping inside the buffer.
	LoopBegin int
	LoopEnd   int

	// BlockFrames is the number of frames in one MS-ADPCM block.
	BlockFrames int

	// derived by Update
	bitDepth    int
	frameBytes  int
	frameCount  int
	blockFrames int
	blockBytes  int

	pcm []int16 // decoded MS-ADPCM window
	raw []byte  // pcm as little-endian bytes
}

// NewBuffer returns an empty stereo S16 buffer.
func NewBuffer(id int) *Buffer {
	b := &Buffer{
		ID:       id,
		Format:   FormatS16,
		Channels: 2,
	}
	b.Update()
	return b
}

// Reset puts a recycled buffer back into its freshly created state, keeping
// the allocated storage.
func (b *Buffer) Reset() {
	b.Format = FormatS16
	b.Channels = 2
	b.Frequency = 0
	b.Bytes = b.Bytes[:0]
	b.LoopBegin = 0
	b.LoopEnd = 0
	b.BlockFrames = 0
	b.Update()
}

// Update recomputes the derived fields from Format, Channels, BlockFrames and len(Bytes).
func (b *Buffer) Update() {
	b.bitDepth = b.Format.BitDepth()
	b.frameBytes = b.Channels * b.bitDepth / 8
	b.blockFrames = 0
	b.blockBytes = 0

	switch {
	case b.Format.IsPCM():
		if b.frameBytes > 0 {
			b.frameCount = len(b.Bytes) / b.frameBytes
		} else {
			b.frameCount = 0
		}
	case b.Format == FormatMSADPCM:
		b.blockFrames = b.BlockFrames
		if b.blockFrames == 0 {
			b.blockFrames = DefaultBlockFrames
		}
		b.blockBytes = msadpcm.BlockBytes(b.Channels, b.blockFrames)
		b.frameCount = msadpcm.FrameCount(len(b.Bytes), b.Channels, b.blockFrames)
	default:
		b.frameCount = 0
	}
}

// CheckSize reports whether the byte length is consistent with the format.
func (b *Buffer) CheckSize() bool {
	if b.Channels < 1 {
		return false
	}

	switch {
	case b.Format.IsPCM():
		return b.frameBytes > 0 && len(b.Bytes)%b.frameBytes == 0
	case b.Format == FormatMSADPCM:
		return msadpcm.Supported(b.Channels) && len(b.Bytes)%b.Channels == 0
	}
	return false
}

// BitDepth of the samples served by Samples.
func (b *Buffer) BitDepth() int { return b.bitDepth }

// FrameBytes is the size of one decoded multichannel frame.
func (b *Buffer) FrameBytes() int { return b.frameBytes }

// FrameCount is the buffer length in decoded frames.
func (b *Buffer) FrameCount() int { return b.frameCount }

// BlockBytes is the compressed size of one MS-ADPCM block, 0 for PCM.
func (b *Buffer) BlockBytes() int { return b.blockBytes }

// Stream describes the decoded samples of the buffer.
func (b *Buffer) Stream() StreamFormat {
	return StreamFormat{Format: b.Format.Decoded(), Channels: b.Channels, Rate: b.Frequency}
}

// Samples returns up to wanted decoded frames starting at frame position.
//
// The returned slice aliases the buffer storage (or its decode scratch for
// MS-ADPCM) and stays valid until the next call. When loopStatic is set and the
// buffer has a loop region, the count stops at LoopEnd. No frames are returned
// for an empty buffer or a position at or past the end.
func (b *Buffer) Samples(wanted, position int, loopStatic bool) ([]byte, int) {
	if len(b.Bytes) == 0 || wanted <= 0 || position < 0 || position >= b.frameCount {
		return nil, 0
	}

	limit := b.frameCount
	if loopStatic && b.LoopEnd != 0 && b.LoopEnd < limit {
		limit = b.LoopEnd
	}
	n := min(wanted, limit-position)
	if n <= 0 {
		return nil, 0
	}

	if b.Format.IsPCM() {
		start := position * b.frameBytes
		return b.Bytes[start : start+n*b.frameBytes], n
	}

	if b.Format != FormatMSADPCM || b.blockBytes == 0 {
		return nil, 0
	}

	firstBlock := position / b.blockFrames
	lastBlock := 1 + (position+n-1)/b.blockFrames

	startByte := firstBlock * b.blockBytes
	endByte := min(len(b.Bytes), lastBlock*b.blockBytes)

	b.pcm = msadpcm.Decode(b.Bytes[startByte:endByte], b.Channels, b.blockFrames, b.pcm[:0])

	decodedFrames := len(b.pcm) / b.Channels
	offset := position % b.blockFrames
	n = min(n, decodedFrames-offset)
	if n <= 0 {
		return nil, 0
	}

	window := b.pcm[offset*b.Channels : (offset+n)*b.Channels]
	if cap(b.raw) < len(window)*2 {
		b.raw = make([]byte, len(window)*2)
	}
	b.raw = b.raw[:len(window)*2]
	for i, s := range window {
		binary.LittleEndian.PutUint16(b.raw[2*i:], uint16(s))
	}

	return b.raw, n
}

// MakeSilent fills the whole buffer with the format's zero signal.
func (b *Buffer) MakeSilent() {
	fill := b.Format.SilenceByte()
	for i := range b.Bytes {
		b.Bytes[i] = fill
	}
}
