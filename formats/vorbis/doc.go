// SPDX-License-Identifier: EPL-2.0

// Package vorbis loads Ogg Vorbis files into audio buffers.
//
// This package uses github.com/jfreymuth/oggvorbis to decode Ogg Vorbis files.
// Vorbis is a free, open-source lossy audio compression format.
//
// The decoder produces float samples, which are kept as audio.FormatF32 with
// the channel count and sample rate of the file:
//
//	f, _ := os.Open("audio.ogg")
//	var buf audio.Buffer
//	if err := (vorbis.Loader{}).Load(f, &buf); err != nil {
//	    // Handle error
//	}
//
// The whole stream is decoded at load time.
package vorbis
