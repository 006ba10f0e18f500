// SPDX-License-Identifier: EPL-2.0

package audio

import "time"

const nanosPerSecond = int64(time.Second)

// TicksToFrames converts an elapsed virtual time into a whole number of frames at rate.
//
// frac carries the sub-frame remainder between calls, in units of nanosecond*Hz.
// Once the remainder reaches half a frame one extra frame is emitted and the
// remainder goes negative, so the total over any tick sequence stays within one
// frame of the exact value. Negative ticks and rates yield 0.
func TicksToFrames(tick time.Duration, rate int, frac *int64) int {
	if tick <= 0 || rate <= 0 {
		return 0
	}

	product := int64(tick) * int64(rate)
	frames := product / nanosPerSecond
	*frac += product % nanosPerSecond
	if *frac >= nanosPerSecond/2 {
		*frac -= nanosPerSecond
		frames++
	}

	return int(frames)
}

// FramesToTicks converts a frame count at rate into a virtual time. frac carries
// the nanosecond remainder, in units of nanosecond*Hz, between calls.
func FramesToTicks(frames, rate int, frac *int64) time.Duration {
	if frames <= 0 || rate <= 0 {
		return 0
	}

	product := int64(frames) * nanosPerSecond
	nanos := product / int64(rate)
	*frac += product % int64(rate)
	if *frac > int64(rate) {
		*frac -= int64(rate)
		nanos++
	}

	return time.Duration(nanos)
}
