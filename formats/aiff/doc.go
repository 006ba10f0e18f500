// SPDX-License-Identifier: EPL-2.0

// Package aiff loads AIFF (Audio Interchange File Format) files into audio
// buffers.
//
// This package uses github.com/go-audio/aiff to decode AIFF files.
// AIFF is Apple's standard audio file format, commonly used on macOS.
//
// # Supported Formats
//
//   - PCM 8, 16, 24 and 32-bit
//   - Any channel count and sample rate
//
// AIFF-C compressed files are not supported.
//
// # Loading AIFF Files
//
//	f, _ := os.Open("audio.aif")
//	var buf audio.Buffer
//	if err := (aiff.Loader{}).Load(f, &buf); err != nil {
//	    // Handle error
//	}
//
// The samples are stored in the narrowest buffer format that holds them: U8
// for 8-bit (shifted from signed to unsigned), S16 for 16-bit and S32 for the
// rest, 24-bit samples moved to the top of the word.
//
// A reader that cannot seek is read into memory first, go-audio needs to seek
// to the sound data.
//
// # Error Handling
//
//   - ErrNotAiffFile: the input is not a valid AIFF file
//   - ErrUnsupportedBitDepth: the sample size has no buffer format
//   - ErrUnsupportedAiffLayout: the COMM chunk is missing or unusable
//
// Example:
//
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    fmt.Println("Not an AIFF file")
//	}
package aiff
