// SPDX-License-Identifier: EPL-2.0

// Package msadpcm decodes Microsoft ADPCM blocks into 16-bit PCM.
//
// The decoder is a pure function over a byte slice. It keeps no state between
// calls, which lets a Buffer decode any block range on demand:
//
//	pcm := msadpcm.Decode(block, 2, 1012, nil)
//
// All arithmetic is integer, so the same input always yields the same samples.
//
// # Block Layout
//
// A mono block starts with a 7 byte preamble:
//   - predictor index (1 byte)
//   - initial delta (int16)
//   - sample1 (int16)
//   - sample2 (int16)
//
// A stereo block stores the same fields for left then right, field by field,
// in 14 bytes. The remaining bytes hold two 4-bit nibbles each. Mono blocks
// decode both nibbles into the same channel, stereo blocks use the high nibble
// for left and the low nibble for right.
//
// Only mono and stereo streams exist in this format; other channel counts
// decode to nothing.
package msadpcm
