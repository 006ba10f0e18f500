// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/detmix/audio"
)

const canonicalHeaderSize = 44

// WritePCM writes data, interleaved samples in format f, as a complete WAV file.
// The header goes first and w is never seeked, so w may be a pipe. Integer
// formats are written as PCM, F32 and F64 as IEEE float.
func WritePCM(w io.Writer, f audio.StreamFormat, data []byte) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("wav output: %w", err)
	}

	tag := uint16(tagPCM)
	switch f.Format {
	case audio.FormatU8, audio.FormatS16, audio.FormatS32:
	case audio.FormatF32, audio.FormatF64:
		tag = tagFloat
	default:
		return fmt.Errorf("%v output: %w", f.Format, ErrUnsupportedWavFormat)
	}

	frameBytes := f.FrameBytes()
	if len(data)%frameBytes != 0 {
		return fmt.Errorf("%d bytes of %d byte frames: %w", len(data), frameBytes, audio.ErrInvalidDstSize)
	}

	bits := uint16(f.Format.BitDepth())
	dataSize := uint32(len(data))

	header := make([]byte, canonicalHeaderSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], canonicalHeaderSize-8+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], minFmtSize)
	binary.LittleEndian.PutUint16(header[20:22], tag)
	binary.LittleEndian.PutUint16(header[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(f.Rate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(f.Rate*frameBytes))
	binary.LittleEndian.PutUint16(header[32:34], uint16(frameBytes))
	binary.LittleEndian.PutUint16(header[34:36], bits)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}

	return nil
}
