// SPDX-License-Identifier: EPL-2.0

// Package flac loads FLAC files into audio buffers using github.com/mewkiz/flac.
//
// Frames are decoded one after the other and interleaved into the buffer:
//
//	f, _ := os.Open("audio.flac")
//	var buf audio.Buffer
//	if err := (flac.Loader{}).Load(f, &buf); err != nil {
//	    // Handle error
//	}
//
// The buffer format follows the stream bit depth: U8 up to 8 bits, S16 up to
// 16 and S32 above. Narrower samples are shifted to the top of the word, a
// 12-bit value 1 loads as the 16-bit value 16.
package flac
