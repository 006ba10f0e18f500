// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	// ErrInvalidDstSize is returned when a byte slice does not hold whole frames.
	ErrInvalidDstSize = errors.New("dst size must be multiple of frame size")

	// ErrUnsupportedFormat is returned when a resampler or mixer cannot handle a sample format.
	ErrUnsupportedFormat = errors.New("unsupported sample format")

	// ErrUnsupportedChannels is returned for a channel count the backend cannot map.
	ErrUnsupportedChannels = errors.New("unsupported channel count")

	// ErrInvalidRate is returned for a zero or negative sample rate.
	ErrInvalidRate = errors.New("invalid sample rate")

	// ErrInvalidTransition is returned when a state change is not allowed from the current state.
	ErrInvalidTransition = errors.New("invalid source state transition")
)
