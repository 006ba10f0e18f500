// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
)

// Format tags of the fmt chunk.
const (
	tagPCM        = 0x0001
	tagMSADPCM    = 0x0002
	tagFloat      = 0x0003
	tagExtensible = 0xFFFE
)

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
	minFmtSize      = 16
)

// header is the part of the fmt chunk a loader needs.
type header struct {
	tag        uint16 // resolved through WAVE_FORMAT_EXTENSIBLE
	channels   int
	rate       int
	blockAlign int
	bits       int

	// samplesPerBlock of MS-ADPCM, 0 when the extension is absent.
	samplesPerBlock int
}

// parse walks the chunks of a RIFF/WAVE file and returns its format and the
// body of its data chunk. Unknown chunks are skipped, odd sized chunks are
// padded. A data chunk that claims more bytes than the file holds is cut to
// what is present.
func parse(data []byte) (header, []byte, error) {
	if len(data) < riffHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return header{}, nil, ErrNotWavFile
	}

	var (
		h         header
		pcm       []byte
		foundFmt  bool
		foundData bool
	)

	for off := riffHeaderSize; off+chunkHeaderSize <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4:]))
		body := data[off+chunkHeaderSize:]

		if size > len(body) {
			if id != "data" {
				return header{}, nil, fmt.Errorf("chunk %q truncated: %w", id, ErrUnsupportedWavLayout)
			}
			size = len(body)
		}
		body = body[:size]

		switch id {
		case "fmt ":
			if size < minFmtSize {
				return header{}, nil, fmt.Errorf("fmt chunk of %d bytes: %w", size, ErrUnsupportedWavLayout)
			}
			h = parseFmt(body)
			foundFmt = true
		case "data":
			if !foundData {
				pcm = body
				foundData = true
			}
		}

		off += chunkHeaderSize + size + size&1
	}

	if !foundFmt {
		return header{}, nil, fmt.Errorf("no fmt chunk: %w", ErrUnsupportedWavLayout)
	}
	if !foundData {
		return header{}, nil, fmt.Errorf("no data chunk: %w", ErrUnsupportedWavLayout)
	}

	return h, pcm, nil
}

func parseFmt(body []byte) header {
	h := header{
		tag:        binary.LittleEndian.Uint16(body[0:]),
		channels:   int(binary.LittleEndian.Uint16(body[2:])),
		rate:       int(binary.LittleEndian.Uint32(body[4:])),
		blockAlign: int(binary.LittleEndian.Uint16(body[12:])),
		bits:       int(binary.LittleEndian.Uint16(body[14:])),
	}

	switch {
	case h.tag == tagExtensible && len(body) >= 26:
		// The sub format GUID starts with the real tag.
		h.tag = binary.LittleEndian.Uint16(body[24:])
	case h.tag == tagMSADPCM && len(body) >= 20:
		h.samplesPerBlock = int(binary.LittleEndian.Uint16(body[18:]))
	}

	return h
}
