// SPDX-License-Identifier: EPL-2.0

package msadpcm

import (
	"encoding/binary"
	"slices"
	"testing"
)

func monoBlock(predictor byte, delta, sample1, sample2 int16, data ...byte) []byte {
	b := []byte{predictor}
	b = binary.LittleEndian.AppendUint16(b, uint16(delta))
	b = binary.LittleEndian.AppendUint16(b, uint16(sample1))
	b = binary.LittleEndian.AppendUint16(b, uint16(sample2))
	return append(b, data...)
}

func TestDecode_MonoReferenceVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block []byte
		want  []int16
	}{
		{
			name:  "zero nibbles stay silent",
			block: monoBlock(0, 16, 0, 0, 0x00, 0x00),
			want:  []int16{0, 0, 0, 0, 0, 0},
		},
		{
			name:  "nibble one adds the minimum delta",
			block: monoBlock(0, 16, 0, 0, 0x11, 0x11),
			want:  []int16{0, 0, 16, 32, 48, 64},
		},
		{
			name:  "nibble seven grows the delta",
			block: monoBlock(0, 16, 0, 0, 0x77, 0x77),
			want:  []int16{0, 0, 112, 378, 1015, 2541},
		},
		{
			name:  "negative nibble",
			block: monoBlock(0, 16, 0, 0, 0xF0, 0x00),
			want:  []int16{0, 0, -16, -16, -16, -16},
		},
		{
			name:  "predictor one extrapolates",
			block: monoBlock(1, 16, 100, 50, 0x00, 0x00),
			want:  []int16{50, 100, 150, 200, 250, 300},
		},
		{
			name:  "result saturates to int16",
			block: monoBlock(0, 16, 32767, 0, 0x70, 0x00),
			want:  []int16{0, 32767, 32767, 32767, 32767, 32767},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Decode(tt.block, 1, 6, nil)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Decode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecode_Stereo(t *testing.T) {
	t.Parallel()

	block := []byte{0, 0}
	for _, v := range []int16{16, 16, 10, -10, 5, -5} {
		block = binary.LittleEndian.AppendUint16(block, uint16(v))
	}
	block = append(block, 0x10, 0x01)

	got := Decode(block, 2, 4, nil)
	want := []int16{5, -5, 10, -10, 26, -10, 26, 6}
	if !slices.Equal(got, want) {
		t.Errorf("Decode() = %v, want %v", got, want)
	}

	if n := FrameCount(len(block), 2, 4); n != len(want)/2 {
		t.Errorf("FrameCount() = %d, want %d", n, len(want)/2)
	}
}

func TestDecode_TruncatedStream(t *testing.T) {
	t.Parallel()

	full := monoBlock(0, 16, 0, 0, 0x11, 0x11)
	// Second block holds only its preamble and one data byte.
	partial := monoBlock(0, 16, 7, 3, 0x10)
	stream := append(slices.Clone(full), partial...)

	got := Decode(stream, 1, 6, nil)
	want := []int16{0, 0, 16, 32, 48, 64, 3, 7, 23, 23}
	if !slices.Equal(got, want) {
		t.Errorf("Decode() = %v, want %v", got, want)
	}

	if n := FrameCount(len(stream), 1, 6); n != len(want) {
		t.Errorf("FrameCount() = %d, want %d", n, len(want))
	}

	// A cut inside the preamble decodes nothing for that block.
	got = Decode(stream[:len(full)+3], 1, 6, nil)
	if len(got) != 6 {
		t.Errorf("Decode() of cut preamble returned %d samples, want 6", len(got))
	}
}

func TestDecode_InvalidInput(t *testing.T) {
	t.Parallel()

	if got := Decode(monoBlock(9, 16, 0, 0, 0x11), 1, 4, nil); len(got) != 0 {
		t.Errorf("Decode() with bad predictor = %v, want empty", got)
	}
	if got := Decode(monoBlock(0, 16, 0, 0, 0x11), 3, 4, nil); len(got) != 0 {
		t.Errorf("Decode() with 3 channels = %v, want empty", got)
	}
	if got := Decode(nil, 1, 4, []int16{1}); !slices.Equal(got, []int16{1}) {
		t.Errorf("Decode() of empty input modified dst: %v", got)
	}
}

func TestBlockGeometry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                        string
		size, channels, blockFrames int
		wantBlockBytes, wantFrames  int
	}{
		{name: "one mono block", size: 9, channels: 1, blockFrames: 6, wantBlockBytes: 9, wantFrames: 6},
		{name: "common stereo block", size: 2048 * 3, channels: 2, blockFrames: 2036, wantBlockBytes: 2048, wantFrames: 2036 * 3},
		{name: "tail shorter than preamble", size: 9 + 6, channels: 1, blockFrames: 6, wantBlockBytes: 9, wantFrames: 6},
		{name: "invalid block frames", size: 100, channels: 1, blockFrames: 1, wantBlockBytes: 0, wantFrames: 0},
		{name: "no channels", size: 100, channels: 0, blockFrames: 64, wantBlockBytes: 0, wantFrames: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := BlockBytes(tt.channels, tt.blockFrames); got != tt.wantBlockBytes {
				t.Errorf("BlockBytes() = %d, want %d", got, tt.wantBlockBytes)
			}
			if got := FrameCount(tt.size, tt.channels, tt.blockFrames); got != tt.wantFrames {
				t.Errorf("FrameCount() = %d, want %d", got, tt.wantFrames)
			}
		})
	}
}

func BenchmarkDecode_Stereo(b *testing.B) {
	const blockFrames = 2036
	block := make([]byte, BlockBytes(2, blockFrames))
	binary.LittleEndian.PutUint16(block[2:], 16)
	binary.LittleEndian.PutUint16(block[4:], 16)
	for i := 14; i < len(block); i++ {
		block[i] = byte(i)
	}
	dst := make([]int16, 0, blockFrames*2)

	b.ReportAllocs()
	for b.Loop() {
		dst = Decode(block, 2, blockFrames, dst[:0])
	}
}
