// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	// ErrInvalidStream is returned for a STREAMINFO without channels or sample rate.
	ErrInvalidStream = errors.New("flac stream without channels or sample rate")

	// ErrUnsupportedBitDepth is returned for samples wider than 32 bits.
	ErrUnsupportedBitDepth = errors.New("unsupported FLAC bit depth")

	// ErrChannelMismatch is returned when a frame carries fewer subframes than
	// the stream has channels.
	ErrChannelMismatch = errors.New("flac frame channel count mismatch")
)
