// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"math"

	"github.com/ik5/detmix/utils"
)

// Samples travel between formats as full scale int32 values ("fixed"): an S16
// sample 0x1234 becomes 0x12340000. Backends convert, interpolate and map channels
// in this domain and only go back to bytes on output.

// ReadFixed returns sample i of a PCM byte stream as a full scale int32.
func ReadFixed(b []byte, f SampleFormat, i int) int32 {
	switch f {
	case FormatU8:
		return (int32(b[i]) - 128) << 24
	case FormatS16, FormatMSADPCM:
		return int32(int16(binary.LittleEndian.Uint16(b[2*i:]))) << 16
	case FormatS32:
		return int32(binary.LittleEndian.Uint32(b[4*i:]))
	case FormatF32:
		return utils.FloatToFixed32(float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))))
	case FormatF64:
		return utils.FloatToFixed32(math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:])))
	}
	return 0
}

// WriteFixed stores a full scale int32 as sample i of a PCM byte stream.
func WriteFixed(b []byte, f SampleFormat, i int, v int32) {
	switch f {
	case FormatU8:
		b[i] = byte((v >> 24) + 128)
	case FormatS16, FormatMSADPCM:
		binary.LittleEndian.PutUint16(b[2*i:], uint16(int16(v>>16)))
	case FormatS32:
		binary.LittleEndian.PutUint32(b[4*i:], uint32(v))
	case FormatF32:
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(float32(utils.Fixed32ToFloat(v))))
	case FormatF64:
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(utils.Fixed32ToFloat(v)))
	}
}
