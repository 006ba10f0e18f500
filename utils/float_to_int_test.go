// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloatToFixed32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float64
		want  int32
	}{
		{name: "zero", input: 0.0, want: 0},
		{name: "max positive", input: 1.0, want: math.MaxInt32},
		{name: "max negative", input: -1.0, want: math.MinInt32},
		{name: "half positive", input: 0.5, want: 1 << 30},
		{name: "half negative", input: -0.5, want: -(1 << 30)},
		{name: "clamp over max", input: 1.5, want: math.MaxInt32},
		{name: "clamp under min", input: -1.5, want: math.MinInt32},
		{name: "nan is silence", input: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FloatToFixed32(tt.input); got != tt.want {
				t.Errorf("FloatToFixed32(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFixed32RoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []int32{0, 1 << 30, -(1 << 30), math.MinInt32, 12345 << 16} {
		if got := FloatToFixed32(Fixed32ToFloat(v)); got != v {
			t.Errorf("round trip of %d = %d", v, got)
		}
	}
}

func TestFloatToFixed32Monotonic(t *testing.T) {
	t.Parallel()

	prev := FloatToFixed32(-1.0)
	for f := -0.99; f <= 1.0; f += 0.01 {
		curr := FloatToFixed32(f)
		if curr < prev {
			t.Errorf("FloatToFixed32 not monotonic: f=%v gives %v, previous was %v", f, curr, prev)
		}
		prev = curr
	}
}

func TestSaturate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		x, lo, hi   int64
		want        int64
		wantClipped bool
	}{
		{name: "inside", x: 10, lo: -32768, hi: 32767, want: 10},
		{name: "at max", x: 32767, lo: -32768, hi: 32767, want: 32767},
		{name: "over max", x: 65534, lo: -32768, hi: 32767, want: 32767, wantClipped: true},
		{name: "under min", x: -65536, lo: -32768, hi: 32767, want: -32768, wantClipped: true},
		{name: "unsigned range", x: -1, lo: 0, hi: 255, want: 0, wantClipped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, clipped := Saturate(tt.x, tt.lo, tt.hi)
			if got != tt.want || clipped != tt.wantClipped {
				t.Errorf("Saturate(%d) = (%d, %v), want (%d, %v)", tt.x, got, clipped, tt.want, tt.wantClipped)
			}
		})
	}
}

func TestSaturateFloat(t *testing.T) {
	t.Parallel()

	if got, clipped := SaturateFloat(1.25, -1, 1); got != 1 || !clipped {
		t.Errorf("SaturateFloat(1.25) = (%v, %v), want (1, true)", got, clipped)
	}
	if got, clipped := SaturateFloat(-0.25, -1, 1); got != -0.25 || clipped {
		t.Errorf("SaturateFloat(-0.25) = (%v, %v), want (-0.25, false)", got, clipped)
	}
}

func BenchmarkFloatToFixed32(b *testing.B) {
	var result int32
	b.ReportAllocs()

	for b.Loop() {
		result = FloatToFixed32(0.5)
	}

	_ = result
}
