// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// ErrInvalidSampleRate is returned when the stream reports no sample rate.
var ErrInvalidSampleRate = errors.New("mp3 stream without sample rate")
