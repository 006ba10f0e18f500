// SPDX-License-Identifier: EPL-2.0

package utils

// Saturate clamps x to [lo, hi] and reports whether it had to.
func Saturate(x, lo, hi int64) (int64, bool) {
	if x < lo {
		return lo, true
	}
	if x > hi {
		return hi, true
	}
	return x, false
}

// SaturateFloat is Saturate for float samples.
func SaturateFloat(x, lo, hi float64) (float64, bool) {
	if x < lo {
		return lo, true
	}
	if x > hi {
		return hi, true
	}
	return x, false
}
