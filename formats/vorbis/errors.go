// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrInvalidStream is returned when the stream reports no channels or sample rate.
var ErrInvalidStream = errors.New("vorbis stream without channels or sample rate")
