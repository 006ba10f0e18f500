// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	// ErrNotWavFile is returned when the stream does not start with a RIFF/WAVE header.
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrUnsupportedWavLayout is returned for missing or truncated fmt and data
	// chunks, and for block sizes that do not match the declared format.
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")

	// ErrUnsupportedWavFormat is returned for format tags and bit depths that
	// cannot be stored in an audio.Buffer.
	ErrUnsupportedWavFormat = errors.New("unsupported WAV format")
)
