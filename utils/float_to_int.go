// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// FloatToFixed32 converts a normalized sample in [-1,1] to a full scale int32.
// Values outside the range are clamped, NaN maps to silence.
func FloatToFixed32(x float64) int32 {
	if x != x {
		return 0
	}
	if x >= 1 {
		return math.MaxInt32
	}
	if x <= -1 {
		return math.MinInt32
	}

	return int32(x * 2147483648.0)
}

// Fixed32ToFloat is the inverse of FloatToFixed32.
func Fixed32ToFloat(v int32) float64 {
	return float64(v) / 2147483648.0
}
