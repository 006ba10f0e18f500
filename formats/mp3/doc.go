// SPDX-License-Identifier: EPL-2.0

// Package mp3 loads MP3 files into audio buffers.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files. The
// whole stream is decoded at load time.
//
// # Output Format
//
//   - Sample format: audio.FormatS16
//   - Channels: 2, mono files are duplicated by the decoder
//   - Sample rate: the rate of the MP3 file (typically 44.1kHz or 48kHz)
//
// # Loading MP3 Files
//
//	f, _ := os.Open("audio.mp3")
//	var buf audio.Buffer
//	if err := (mp3.Loader{}).Load(f, &buf); err != nil {
//	    // Handle error
//	}
//
// Decoder errors are wrapped and returned as is. A trailing partial frame is
// dropped.
package mp3
