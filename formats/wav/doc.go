// SPDX-License-Identifier: EPL-2.0

// Package wav loads WAV files into audio buffers and writes mixed output back
// to WAV.
//
// # Loading
//
// Loader accepts the common WAVE encodings:
//   - PCM 8, 16, 24 and 32-bit, decoded with github.com/go-audio/wav
//   - IEEE float 32 and 64-bit
//   - MS-ADPCM mono and stereo, kept compressed
//
// WAVE_FORMAT_EXTENSIBLE headers are resolved to their sub format. Chunks other
// than fmt and data are skipped.
//
//	var buf audio.Buffer
//	if err := (wav.Loader{}).Load(file, &buf); err != nil {
//	    // errors.Is(err, wav.ErrNotWavFile) ...
//	}
//
// # Writing
//
// Sink streams periods into a seekable file and fixes the header sizes on Close:
//
//	f, _ := os.Create("mix.wav")
//	sink, _ := wav.NewSink(f, r.Output())
//	for ... {
//	    _ = sink.Write(r.MixAll(tick, period))
//	}
//	_ = sink.Close()
//
// WritePCM writes a complete file in one call to any io.Writer, including
// float output.
package wav
